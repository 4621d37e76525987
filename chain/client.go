package chain

import (
	"github.com/ethereum/go-ethereum/common"

	"pairlend/lending"
)

// Client hands out typed bindings sharing one backend and one capability.
// The signer decides the write capability for every binding the client
// creates; constructing a client is the single place that decision is made.
type Client struct {
	backend Backend
	signer  *Signer
}

// NewClient wraps a backend. A nil signer produces a read-only client.
func NewClient(backend Backend, signer *Signer) *Client {
	return &Client{backend: backend, signer: signer}
}

// Account returns the signer's address, or the zero address for a read-only
// client.
func (c *Client) Account() common.Address { return c.signer.Address() }

// CanTransact reports whether the client holds the write capability.
func (c *Client) CanTransact() bool { return c.signer != nil }

// Pair binds a lending pair contract.
func (c *Client) Pair(address common.Address) (*Pair, error) {
	return NewPair(c.backend, address, c.signer)
}

// Oracle binds a price oracle contract.
func (c *Client) Oracle(address common.Address) (*Oracle, error) {
	return NewOracle(c.backend, address, c.signer)
}

// Registry binds the pair registry contract.
func (c *Client) Registry(address common.Address) (*Registry, error) {
	return NewRegistry(c.backend, address, c.signer)
}

// ERC20 binds a token contract.
func (c *Client) ERC20(address common.Address) (*ERC20, error) {
	return NewERC20(c.backend, address, c.signer)
}

// TokenResolver adapts the client into the resolver shape the lending
// package expects for writable token bindings. Resolution failures surface
// lazily as call errors on a nil binding, which the lending flows report as
// remote read failures.
func (c *Client) TokenResolver() lending.TokenTransactorResolver {
	return func(address common.Address) lending.TokenTransactor {
		token, err := c.ERC20(address)
		if err != nil {
			return nil
		}
		return token
	}
}
