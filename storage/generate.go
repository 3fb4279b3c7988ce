package storage

import (
	"fmt"
	"math"
)

var orderStatuses = []string{"shipped", "processing", "delivered", "cancelled"}

const ordersPerUser = 50

type Order struct {
	OrderID int     `json:"order_id"`
	Product string  `json:"product"`
	Amount  float64 `json:"amount"`
	Status  string  `json:"status"`
}

type User struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Orders []Order `json:"orders"`
}

type UsersOrders struct {
	Users []User `json:"users"`
}

// GenerateUsersOrders builds the sample dataset written by `datafeed generate`.
func GenerateUsersOrders() UsersOrders {
	seed := []struct {
		id    int
		name  string
		email string
	}{
		{1, "Alice", "alice@example.com"},
		{2, "Bob", "bob@example.com"},
	}

	data := UsersOrders{Users: make([]User, 0, len(seed))}
	for _, u := range seed {
		orders := make([]Order, 0, ordersPerUser)
		base := u.id * 100
		for i := 1; i <= ordersPerUser; i++ {
			orders = append(orders, Order{
				OrderID: base + i,
				Product: fmt.Sprintf("High Quality and Durable Product Model Number %03d for Everyday Use", i),
				Amount:  roundCents(10 + float64(i)*0.5 + float64(u.id)*1.1),
				Status:  orderStatuses[i%len(orderStatuses)],
			})
		}
		data.Users = append(data.Users, User{
			ID:     u.id,
			Name:   u.name,
			Email:  u.email,
			Orders: orders,
		})
	}
	return data
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
