package domain

import "time"

// Fund is a monetary contribution, distinct from a blood donation.
// Created exactly once per confirmed payment, never mutated or deleted.
type Fund struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Amount        float64   `json:"amount"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Statistics is the admin/volunteer dashboard aggregate.
type Statistics struct {
	TotalUsers            int64   `json:"totalUsers"`
	TotalDonationRequests int64   `json:"totalDonationRequests"`
	TotalFunds            float64 `json:"totalFunds"`
}
