package constants

// NATS Subjects
const (
	// Payments
	SubjectPaymentFinalized = "payments.finalized"
)

// RabbitMQ routing keys
const (
	RoutingKeyPaymentFinalized = "payment.finalized"
)
