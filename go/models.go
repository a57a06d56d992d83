package shopserver

import "time"

// PlaceOrderRequest is the body of POST /order. Keys of ProductsIdsToQuantity are product ids.
type PlaceOrderRequest struct {
	CustomerId            int64          `json:"customerId"`
	ProductsIdsToQuantity map[string]int `json:"productsIdsToQuantity"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductId   int64  `json:"productId"`
	ProductCode string `json:"productCode,omitempty"`
	Quantity    int    `json:"quantity"`
}

// Order is the order resource.
type Order struct {
	Id         int64       `json:"id"`
	CustomerId int64       `json:"customerId"`
	Items      []OrderItem `json:"items"`
	Status     string      `json:"status"`
	Delivered  bool        `json:"delivered"`
	Canceled   bool        `json:"canceled"`
	Returned   bool        `json:"returned"`
	PlacedAt   time.Time   `json:"placedAt"`
}

// Product is the product resource. Price is a decimal string such as "19.99".
type Product struct {
	Id          int64  `json:"id,omitempty"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Currency    string `json:"currency,omitempty"`
	Valid       bool   `json:"valid"`
	Stock       int    `json:"stock"`
}

type Address struct {
	City    string `json:"city,omitempty"`
	Street  string `json:"street,omitempty"`
	Number  int32  `json:"number,omitempty"`
	Zipcode string `json:"zipcode,omitempty"`
}

// User is the user resource. Roles hold any of CLIENT, ADMIN, EXPEDITOR and EDITOR.
type User struct {
	Id        int64    `json:"id,omitempty"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName,omitempty"`
	Surname   string   `json:"surname,omitempty"`
	Address   Address  `json:"address"`
	Roles     []string `json:"roles"`
}
