package models

import (
	"bitbucket.org/mmdatafocus/fleet_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&AssetType{},
		&MajorLocation{},
		&Asset{},
		&Event{},
		&Comment{},
		&DispatchRequest{},
		&StandardDispatch{},
		&Contract{},
		&Reimbursement{},
		&Reject{},
	)
	if err != nil {
		panic(err)
	}
}
