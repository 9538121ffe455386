package models

import (
	"salonbook/src/scheduling"
	"salonbook/src/types"
)

// WorkingHoursTemplate is the weekly pattern. DayOfWeek is 0 for Sunday.
type WorkingHoursTemplate struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	WorkerID   uint    `gorm:"uniqueIndex:idx_template_worker_day;not null" json:"workerId"`
	DayOfWeek  int     `gorm:"uniqueIndex:idx_template_worker_day;not null" json:"dayOfWeek"`
	StartTime  *string `gorm:"type:varchar(5)" json:"startTime"`
	EndTime    *string `gorm:"type:varchar(5)" json:"endTime"`
	BreakStart *string `gorm:"type:varchar(5)" json:"breakStart"`
	BreakEnd   *string `gorm:"type:varchar(5)" json:"breakEnd"`
	IsDayOff   bool    `gorm:"default:false" json:"isDayOff"`

	types.Timestamps
}

func (t *WorkingHoursTemplate) Hours() *scheduling.Hours {
	if t == nil {
		return nil
	}
	return &scheduling.Hours{
		StartTime:  t.StartTime,
		EndTime:    t.EndTime,
		BreakStart: t.BreakStart,
		BreakEnd:   t.BreakEnd,
		IsDayOff:   t.IsDayOff,
	}
}

type WorkingHoursOverride struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	WorkerID   uint    `gorm:"uniqueIndex:idx_override_worker_date;not null" json:"workerId"`
	Date       string  `gorm:"uniqueIndex:idx_override_worker_date;type:varchar(10);not null" json:"date"`
	StartTime  *string `gorm:"type:varchar(5)" json:"startTime"`
	EndTime    *string `gorm:"type:varchar(5)" json:"endTime"`
	BreakStart *string `gorm:"type:varchar(5)" json:"breakStart"`
	BreakEnd   *string `gorm:"type:varchar(5)" json:"breakEnd"`
	IsDayOff   bool    `gorm:"default:false" json:"isDayOff"`
	Note       *string `json:"note,omitempty"`

	types.Timestamps
}

func (o *WorkingHoursOverride) Hours() *scheduling.Hours {
	if o == nil {
		return nil
	}
	return &scheduling.Hours{
		StartTime:  o.StartTime,
		EndTime:    o.EndTime,
		BreakStart: o.BreakStart,
		BreakEnd:   o.BreakEnd,
		IsDayOff:   o.IsDayOff,
	}
}
