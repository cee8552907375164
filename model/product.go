package model

import "github.com/shopspring/decimal"

type Product struct {
	ID    uint64          `db:"id" json:"id"`
	Name  string          `db:"name" json:"name"`
	Price decimal.Decimal `db:"price" json:"price"`
	Stock int64           `db:"stock" json:"stock"`
}
