package httpapi

import (
	"lifeboard/internal/board"
	"lifeboard/internal/service"
	"lifeboard/internal/store"
)

// CreateBoardRequest carries a new board either as rows or in the text format.
// Exactly one of the fields must be set.
type CreateBoardRequest struct {
	Rows [][]int `json:"rows,omitempty"`
	Text *string `json:"text,omitempty"`
}

// BoardResponse is a single stored board.
type BoardResponse = store.Record

// BoardsResponse lists stored boards in creation order.
type BoardsResponse struct {
	Boards []store.Record `json:"boards"`
}

// StatesResponse holds the boards produced by an advance of several steps.
type StatesResponse struct {
	ID     store.ID      `json:"id"`
	States []board.Board `json:"states"`
}

// FinalStateResponse reports a settled board.
type FinalStateResponse struct {
	ID         store.ID       `json:"id"`
	Board      board.Board    `json:"board"`
	StepsTaken int            `json:"steps_taken"`
	Reason     service.Reason `json:"reason"`
}

// SelectRequest picks the last-active board.
type SelectRequest struct {
	ID store.ID `json:"id"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
