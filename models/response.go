package models

import "time"

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type DataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type ListResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type RouteNotFoundResponse struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	AvailableRoutes []string `json:"availableRoutes"`
}

type HealthResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Store       string    `json:"store"`
	Media       string    `json:"media"`
}

// ItemView is the client-facing shape of an item.
type ItemView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	OriginalPrice *string   `json:"originalPrice"`
	Condition     string    `json:"condition"`
	Location      string    `json:"location"`
	Category      string    `json:"category"`
	Image         string    `json:"image"`
	Images        []string  `json:"images"`
	Seller        string    `json:"seller"`
	SellerPhone   string    `json:"sellerPhone"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"reviewCount"`
	Liked         bool      `json:"liked"`
	PostedTime    string    `json:"postedTime"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreatedItem struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Price  string  `json:"price"`
	Images []Image `json:"images"`
}

type LikeState struct {
	ID    string `json:"id"`
	Liked bool   `json:"liked"`
}
