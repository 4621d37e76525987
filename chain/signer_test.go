package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var testKeyAddress = common.HexToAddress("0x71562b71999873DB5b286dF957af199Ec94617F7")

func TestNewSignerDerivesAddress(t *testing.T) {
	signer, err := NewSigner(testKeyHex, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signer.Address() != testKeyAddress {
		t.Fatalf("expected %s, got %s", testKeyAddress.Hex(), signer.Address().Hex())
	}
}

func TestNewSignerAcceptsHexPrefix(t *testing.T) {
	signer, err := NewSigner("0x"+testKeyHex, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signer.Address() != testKeyAddress {
		t.Fatalf("expected %s, got %s", testKeyAddress.Hex(), signer.Address().Hex())
	}
}

func TestNewSignerValidation(t *testing.T) {
	if _, err := NewSigner("", big.NewInt(1)); err == nil {
		t.Fatal("empty key must be rejected")
	}
	if _, err := NewSigner(testKeyHex, nil); err == nil {
		t.Fatal("missing chain id must be rejected")
	}
	if _, err := NewSigner(testKeyHex, big.NewInt(0)); err == nil {
		t.Fatal("zero chain id must be rejected")
	}
	if _, err := NewSigner("zz", big.NewInt(1)); err == nil {
		t.Fatal("malformed key must be rejected")
	}
}

func TestNilSignerIsReadOnly(t *testing.T) {
	var signer *Signer
	if signer.Address() != (common.Address{}) {
		t.Fatal("nil signer must report the zero address")
	}
}
