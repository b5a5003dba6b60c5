package repo

import "errors"

// Sentinel errors shared by every repository implementation. Services and
// handlers match on these with errors.Is; implementations may wrap them with
// extra context.
var (
	// ErrProductNotFound is returned when a product does not exist in the
	// tenant's scope.
	ErrProductNotFound = errors.New("product not found")

	// ErrSaleNotFound is returned when a sale does not exist in the tenant's
	// scope.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrSessionNotFound is returned when a cash session does not exist in
	// the tenant's scope.
	ErrSessionNotFound = errors.New("cash session not found")

	// ErrUserNotFound is returned when a user lookup fails.
	ErrUserNotFound = errors.New("user not found")

	// ErrCustomerNotFound is returned when a customer does not exist in the
	// tenant's scope.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvalidArgument is returned for malformed input that survived the
	// request layer: negative price, zero or negative quantity, unknown enum.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientStock is returned when applying a movement would drive a
	// product's stock below zero. Nothing is written.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientPayment is returned when a sale's payment amount is less
	// than its total.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrNoOpenSession is returned when a sale is attempted with no OPEN cash
	// session for the till.
	ErrNoOpenSession = errors.New("no open cash session")

	// ErrSessionAlreadyOpen is returned when opening a session while another
	// one is already OPEN for the same (tenant, till).
	ErrSessionAlreadyOpen = errors.New("cash session already open")

	// ErrSessionNotOpen is returned when closing or accruing against a
	// session that is not OPEN.
	ErrSessionNotOpen = errors.New("cash session not open")

	// ErrConsistencyViolation is returned when the cached stock of a product
	// disagrees with the sum of its ledger movements. It is surfaced, never
	// repaired automatically.
	ErrConsistencyViolation = errors.New("stock ledger consistency violation")

	// ErrDuplicatedValueUnique is returned when an insert violates a unique
	// constraint (e.g. user email).
	ErrDuplicatedValueUnique = errors.New("unique constraint violation")
)
