// Package loader defines an abstraction to load the credentials of an account
// from a persistent storage. It allows one to either read them from the
// storage, or to generate a new key pair and store it for the next time.
package loader

import (
	"encoding/json"
	"path/filepath"

	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/crypto/common"
	"go.dedis.ch/nearapi/crypto/ed25519"
	"golang.org/x/xerrors"
)

// Generator is the interface to implement to generate the content of a new
// record.
type Generator interface {
	Generate() ([]byte, error)
}

// Loader is an abstraction to load a record from a storage. It allows for
// instance to load credentials from the disk, or generate them if they don't
// exist.
type Loader interface {
	// LoadOrCreate tries to load the record and returns it if found,
	// otherwise it generates a new one using the generator and stores it.
	LoadOrCreate(Generator) ([]byte, error)

	// Load returns the record, or an error if it does not exist.
	Load() ([]byte, error)
}

// Credentials is the key pair of an account in its text form.
type Credentials struct {
	AccountID  string `json:"account_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// NewCredentials returns the credentials of the account with the key pair of
// the signer.
func NewCredentials(account string, signer ed25519.Signer) Credentials {
	return Credentials{
		AccountID:  account,
		PublicKey:  signer.GetPublicKey().String(),
		PrivateKey: signer.String(),
	}
}

// ParseCredentials decodes JSON credentials.
func ParseCredentials(data []byte) (Credentials, error) {
	var creds Credentials

	err := json.Unmarshal(data, &creds)
	if err != nil {
		return creds, xerrors.Errorf("couldn't decode credentials: %v", err)
	}

	if creds.PrivateKey == "" {
		return creds, xerrors.New("missing private key")
	}

	return creds, nil
}

// Marshal returns the JSON credentials.
func (c Credentials) Marshal() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode credentials: %v", err)
	}

	return data, nil
}

// Signer returns the signer of the private key. It fails if the public key is
// set and does not match.
func (c Credentials) Signer() (crypto.Signer, error) {
	signer, err := common.ParseSecretKey(c.PrivateKey)
	if err != nil {
		return nil, err
	}

	if c.PublicKey == "" {
		return signer, nil
	}

	pk, err := common.ParsePublicKey(c.PublicKey)
	if err != nil {
		return nil, err
	}

	if !pk.Equal(signer.GetPublicKey()) {
		return nil, xerrors.Errorf("public key mismatch: %v != %v", pk, signer.GetPublicKey())
	}

	return signer, nil
}

// CredentialsPath returns the path of the credentials of the account in the
// directory, organized by network.
func CredentialsPath(dir, network, account string) string {
	return filepath.Join(dir, network, account+".json")
}

// credentialsGenerator generates the credentials of a new ed25519 key pair.
//
// - implements loader.Generator
type credentialsGenerator struct {
	account string
}

// NewCredentialsGenerator returns a generator of new credentials for the
// account.
func NewCredentialsGenerator(account string) Generator {
	return credentialsGenerator{account: account}
}

// Generate implements loader.Generator.
func (g credentialsGenerator) Generate() ([]byte, error) {
	return NewCredentials(g.account, ed25519.NewSigner()).Marshal()
}

// LoadOrCreateCredentials returns the credentials stored by the loader, or
// stores new ones for the account.
func LoadOrCreateCredentials(l Loader, account string) (Credentials, error) {
	data, err := l.LoadOrCreate(NewCredentialsGenerator(account))
	if err != nil {
		return Credentials{}, err
	}

	return ParseCredentials(data)
}
