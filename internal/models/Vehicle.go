// internal/models/vehicle.go
package models

import (
	"gorm.io/gorm"
)

type Vehicle struct {
	gorm.Model
	RouteID      uint   `json:"route_id" gorm:"index"`
	UserID       uint   `json:"user_id" gorm:"index"` // the driver's user account
	LicensePlate string `json:"license_plate" gorm:"unique"`
	VehicleModel string `json:"model"`
	Capacity     int    `json:"capacity"` // seats, must be positive

	Driver User `gorm:"foreignKey:UserID" json:"-"`
}
