package models

// All lists every persisted model, in dependency order, for migrations.
func All() []any {
	return []any{
		&User{},
		&CustomerProfile{},
		&KitchenProfile{},
		&CourierProfile{},
		&Dish{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&Message{},
	}
}
