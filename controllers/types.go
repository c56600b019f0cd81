package controllers

import "github.com/postboard/api-go/services"

type StandardResponse struct {
	Success    bool                     `json:"success"`
	Data       interface{}              `json:"data,omitempty"`
	Pagination *services.PaginationMeta `json:"pagination,omitempty"`
	Message    string                   `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Fields  map[string][]string `json:"fields,omitempty"`
}
