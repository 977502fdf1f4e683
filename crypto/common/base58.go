package common

import (
	"github.com/mr-tron/base58"
	"golang.org/x/xerrors"
)

func decodeBase58(text string) ([]byte, error) {
	data, err := base58.Decode(text)
	if err != nil {
		return nil, xerrors.Errorf("base58: %v", err)
	}

	return data, nil
}
