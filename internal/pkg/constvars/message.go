package constvars

// Success messages for clients
const (
	PreOrderSuccessMessage    = "Successfully created payment order"
	QueryOrderSuccessMessage  = "Successfully queried payment order"
	RefundSuccessMessage      = "Successfully submitted refund request"
	QueryRefundSuccessMessage = "Successfully queried refund"
)
