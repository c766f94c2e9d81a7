package crafting

// Pool holds the spendable dot count. The count never goes negative.
type Pool struct {
	count int
}

// NewPool creates a pool holding initial dots.
func NewPool(initial int) (*Pool, error) {
	if initial < 0 {
		return nil, ErrNegativePool
	}
	return &Pool{count: initial}, nil
}

// Count returns the number of spendable dots.
func (p *Pool) Count() int { return p.count }

// Withdraw takes one dot. It reports false, leaving the pool untouched,
// when the pool is empty.
func (p *Pool) Withdraw() bool {
	if p.count <= 0 {
		return false
	}
	p.count--
	return true
}

// Deposit returns n dots to the pool. Non-positive amounts are ignored.
func (p *Pool) Deposit(n int) {
	if n <= 0 {
		return
	}
	p.count += n
}
