package ed25519

import (
	"fmt"
)

func ExampleSigner_Sign() {
	signer := NewSigner()

	message := []byte("transaction hash")

	signature, err := signer.Sign(message)
	if err != nil {
		panic("signing failed: " + err.Error())
	}

	err = signer.GetPublicKey().Verify(message, signature)
	if err != nil {
		panic("invalid signature: " + err.Error())
	}

	fmt.Println("signature is valid")

	// Output: signature is valid
}
