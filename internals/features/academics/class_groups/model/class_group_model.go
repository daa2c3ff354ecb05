// internals/features/academics/class_groups/model/class_group_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassGroupModel = rombongan belajar per prodi per tahun akademik.
// enrolled_count dirawat oleh flow registrasi, bukan di-edit manual.
type ClassGroupModel struct {
	ClassGroupsID      uuid.UUID `gorm:"column:class_groups_id;type:uuid;default:gen_random_uuid();primaryKey" json:"class_groups_id"`
	ClassGroupsMajorID uuid.UUID `gorm:"column:class_groups_major_id;type:uuid;not null;index" json:"class_groups_major_id"`

	ClassGroupsName         string `gorm:"column:class_groups_name;type:varchar(60);not null" json:"class_groups_name"`
	ClassGroupsAcademicYear string `gorm:"column:class_groups_academic_year;type:varchar(9);not null" json:"class_groups_academic_year"` // contoh: 2025/2026

	ClassGroupsCapacity      int `gorm:"column:class_groups_capacity;not null;default:40;check:class_groups_capacity > 0" json:"class_groups_capacity"`
	ClassGroupsEnrolledCount int `gorm:"column:class_groups_enrolled_count;not null;default:0;check:class_groups_enrolled_count >= 0" json:"class_groups_enrolled_count"`

	ClassGroupsIsActive  bool           `gorm:"column:class_groups_is_active;not null;default:true" json:"class_groups_is_active"`
	ClassGroupsCreatedAt time.Time      `gorm:"column:class_groups_created_at;not null;autoCreateTime" json:"class_groups_created_at"`
	ClassGroupsUpdatedAt time.Time      `gorm:"column:class_groups_updated_at;not null;autoUpdateTime" json:"class_groups_updated_at"`
	ClassGroupsDeletedAt gorm.DeletedAt `gorm:"column:class_groups_deleted_at;index" json:"class_groups_deleted_at,omitempty"`
}

func (ClassGroupModel) TableName() string { return "class_groups" }

func (m ClassGroupModel) IsFull() bool {
	return m.ClassGroupsEnrolledCount >= m.ClassGroupsCapacity
}
