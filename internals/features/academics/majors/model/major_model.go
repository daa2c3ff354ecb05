// internals/features/academics/majors/model/major_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MajorDegree string

const (
	MajorDegreeD3 MajorDegree = "d3"
	MajorDegreeS1 MajorDegree = "s1"
	MajorDegreeS2 MajorDegree = "s2"
	MajorDegreeS3 MajorDegree = "s3"
)

type MajorModel struct {
	MajorsID           uuid.UUID `gorm:"column:majors_id;type:uuid;default:gen_random_uuid();primaryKey" json:"majors_id"`
	MajorsDepartmentID uuid.UUID `gorm:"column:majors_department_id;type:uuid;not null;index" json:"majors_department_id"`

	MajorsCode   string      `gorm:"column:majors_code;type:varchar(20);not null" json:"majors_code"`
	MajorsName   string      `gorm:"column:majors_name;type:varchar(120);not null" json:"majors_name"`
	MajorsDegree MajorDegree `gorm:"column:majors_degree;type:varchar(8);not null;default:'s1'" json:"majors_degree"`
	MajorsSlug   string      `gorm:"column:majors_slug;type:varchar(160);not null" json:"majors_slug"`

	MajorsIsActive  bool           `gorm:"column:majors_is_active;not null;default:true" json:"majors_is_active"`
	MajorsCreatedAt time.Time      `gorm:"column:majors_created_at;not null;autoCreateTime" json:"majors_created_at"`
	MajorsUpdatedAt time.Time      `gorm:"column:majors_updated_at;not null;autoUpdateTime" json:"majors_updated_at"`
	MajorsDeletedAt gorm.DeletedAt `gorm:"column:majors_deleted_at;index" json:"majors_deleted_at,omitempty"`
}

func (MajorModel) TableName() string { return "majors" }

func ValidMajorDegree(d string) bool {
	switch MajorDegree(d) {
	case MajorDegreeD3, MajorDegreeS1, MajorDegreeS2, MajorDegreeS3:
		return true
	}
	return false
}
