// internals/features/academics/subjects/model/subject_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectsID      uuid.UUID `gorm:"column:subjects_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subjects_id"`
	SubjectsMajorID uuid.UUID `gorm:"column:subjects_major_id;type:uuid;not null;index" json:"subjects_major_id"`

	SubjectsCode string  `gorm:"column:subjects_code;type:varchar(20);not null" json:"subjects_code"`
	SubjectsName string  `gorm:"column:subjects_name;type:varchar(120);not null" json:"subjects_name"`
	SubjectsDesc *string `gorm:"column:subjects_desc;type:text" json:"subjects_desc,omitempty"`

	// SKS 1..6, semester paket 1..14
	SubjectsCredits    int `gorm:"column:subjects_credits;not null;check:subjects_credits BETWEEN 1 AND 6" json:"subjects_credits"`
	SubjectsSemesterNo int `gorm:"column:subjects_semester_no;not null;check:subjects_semester_no BETWEEN 1 AND 14" json:"subjects_semester_no"`

	SubjectsIsActive  bool           `gorm:"column:subjects_is_active;not null;default:true" json:"subjects_is_active"`
	SubjectsCreatedAt time.Time      `gorm:"column:subjects_created_at;not null;autoCreateTime" json:"subjects_created_at"`
	SubjectsUpdatedAt time.Time      `gorm:"column:subjects_updated_at;not null;autoUpdateTime" json:"subjects_updated_at"`
	SubjectsDeletedAt gorm.DeletedAt `gorm:"column:subjects_deleted_at;index" json:"subjects_deleted_at,omitempty"`
}

func (SubjectModel) TableName() string { return "subjects" }
