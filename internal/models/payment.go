package models

// CheckoutSession is returned to the member starting an online payment.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
