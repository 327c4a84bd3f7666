package journal

import (
	"main/internal/errors"
	"main/internal/event"
	"main/pkg/conn"
)

// Postgres persists the journal through gorm.
type Postgres struct {
	client *conn.Client
}

// NewPostgres connects and migrates the journal tables.
func NewPostgres(option conn.Option) (*Postgres, error) {
	client, err := conn.New(option)
	if err != nil {
		return nil, errors.Wrap(err, "connect journal database")
	}
	if err := client.Migrate(&FillRecord{}, &EquityRecord{}); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "migrate journal tables")
	}
	return &Postgres{client: client}, nil
}

func (p *Postgres) RecordFill(fill event.Fill) error {
	rec := newFillRecord(fill)
	if err := p.client.DB().Create(&rec).Error; err != nil {
		return errors.Wrap(err, "insert fill record")
	}
	return nil
}

func (p *Postgres) RecordEquity(rec EquityRecord) error {
	if err := p.client.DB().Create(&rec).Error; err != nil {
		return errors.Wrap(err, "insert equity record")
	}
	return nil
}

func (p *Postgres) Fills() ([]FillRecord, error) {
	var out []FillRecord
	if err := p.client.DB().Order("id").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "query fill records")
	}
	return out, nil
}

func (p *Postgres) EquityCurve() ([]EquityRecord, error) {
	var out []EquityRecord
	if err := p.client.DB().Order("id").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "query equity records")
	}
	return out, nil
}

func (p *Postgres) Close() error {
	return p.client.Close()
}
