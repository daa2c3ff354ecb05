// internals/features/academics/departments/model/department_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentModel struct {
	DepartmentsID uuid.UUID `gorm:"column:departments_id;type:uuid;default:gen_random_uuid();primaryKey" json:"departments_id"`

	DepartmentsCode string  `gorm:"column:departments_code;type:varchar(20);not null" json:"departments_code"`
	DepartmentsName string  `gorm:"column:departments_name;type:varchar(120);not null" json:"departments_name"`
	DepartmentsDesc *string `gorm:"column:departments_desc;type:text" json:"departments_desc,omitempty"`

	// NOT NULL, auto-generate dari name jika kosong
	DepartmentsSlug string `gorm:"column:departments_slug;type:varchar(160);not null" json:"departments_slug"`

	DepartmentsIsActive  bool           `gorm:"column:departments_is_active;not null;default:true" json:"departments_is_active"`
	DepartmentsCreatedAt time.Time      `gorm:"column:departments_created_at;not null;autoCreateTime" json:"departments_created_at"`
	DepartmentsUpdatedAt time.Time      `gorm:"column:departments_updated_at;not null;autoUpdateTime" json:"departments_updated_at"`
	DepartmentsDeletedAt gorm.DeletedAt `gorm:"column:departments_deleted_at;index" json:"departments_deleted_at,omitempty"`
}

func (DepartmentModel) TableName() string { return "departments" }
