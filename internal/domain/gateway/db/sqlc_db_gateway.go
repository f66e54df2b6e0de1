package db

import (
	"context"
	"database/sql"
	"go-weather/internal/domain/model"
	"time"
)

type SQLCHealthDBGateway struct {
	DB      *sql.DB
	dialect Dialect
}

var _ HealthDBGateway = (*SQLCHealthDBGateway)(nil)

func NewSQLCHealthDBGateway(db *sql.DB, dialect Dialect) *SQLCHealthDBGateway {
	return &SQLCHealthDBGateway{DB: db, dialect: dialect}
}

func (gateway *SQLCHealthDBGateway) Health() model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := gateway.DB.PingContext(ctx); err != nil {
		return downStatus(err)
	}
	return upStatus(string(gateway.dialect))
}
