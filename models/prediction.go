package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrRecordImmutable = errors.New("prediction records are immutable")

type PredictionRecord struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RI             float64   `gorm:"column:ri;not null" json:"RI"`
	Na             float64   `gorm:"column:na;not null" json:"Na"`
	Mg             float64   `gorm:"column:mg;not null" json:"Mg"`
	Al             float64   `gorm:"column:al;not null" json:"Al"`
	Si             float64   `gorm:"column:si;not null" json:"Si"`
	K              float64   `gorm:"column:k;not null" json:"K"`
	Ca             float64   `gorm:"column:ca;not null" json:"Ca"`
	Ba             float64   `gorm:"column:ba;not null" json:"Ba"`
	Fe             float64   `gorm:"column:fe;not null" json:"Fe"`
	Classification string    `gorm:"column:classification;size:64;not null" json:"classification"`
	CreatedAt      time.Time `gorm:"column:created_at;index;not null" json:"created_at"`
}

func (PredictionRecord) TableName() string { return "prediction_records" }

func NewPredictionRecord(m Measurements, classification string) *PredictionRecord {
	return &PredictionRecord{
		RI:             m.RI,
		Na:             m.Na,
		Mg:             m.Mg,
		Al:             m.Al,
		Si:             m.Si,
		K:              m.K,
		Ca:             m.Ca,
		Ba:             m.Ba,
		Fe:             m.Fe,
		Classification: classification,
	}
}

func (r PredictionRecord) Measurements() Measurements {
	return Measurements{RI: r.RI, Na: r.Na, Mg: r.Mg, Al: r.Al, Si: r.Si, K: r.K, Ca: r.Ca, Ba: r.Ba, Fe: r.Fe}
}

func (r PredictionRecord) String() string {
	return fmt.Sprintf("[%s] - %s", r.Classification, r.CreatedAt.Format("2006/01/02 15:04"))
}

func (r *PredictionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.Classification == "" {
		return errors.New("classification must not be empty")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

func (r *PredictionRecord) BeforeUpdate(tx *gorm.DB) error { return ErrRecordImmutable }

func (r *PredictionRecord) BeforeDelete(tx *gorm.DB) error { return ErrRecordImmutable }
