// Package transport defines request and response shapes for the leads API.
package transport

import (
	"estatepilot_backend/internal/leads/repository"
)

// ListLeadsRequest filters the lead list.
type ListLeadsRequest struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// UpdateStatusRequest changes a lead's status from the dashboard.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListLeadsResponse is a page of leads with the unpaged total.
type ListLeadsResponse struct {
	Leads  []repository.Lead `json:"leads"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
