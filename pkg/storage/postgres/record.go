package postgres

import (
	"context"
	"errors"
	"time"

	"gexstore/pkg/storage"

	"gorm.io/gorm"
)

// Client implements storage.Store over the gex_record table.
var _ storage.Store = (*Client)(nil)

func (c *Client) Find(ctx context.Context, ticker string, date time.Time, label string) (uint, bool, error) {
	var rec storage.Record
	err := c.DB.WithContext(ctx).
		Select("id").
		Where("ticker = ? AND date = ? AND label = ?", ticker, storage.Day(date), label).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.ID, true, nil
}

func (c *Client) Insert(ctx context.Context, rec *storage.Record) error {
	rec.Date = storage.Day(rec.Date)
	return c.DB.WithContext(ctx).Create(rec).Error
}

func (c *Client) UpdateValue(ctx context.Context, id uint, value string) error {
	return c.DB.WithContext(ctx).
		Model(&storage.Record{}).
		Where("id = ?", id).
		Update("value", value).Error
}

func (c *Client) Delete(ctx context.Context, ticker string, date time.Time, label, value string) error {
	return c.DB.WithContext(ctx).
		Where("ticker = ? AND date = ? AND label = ? AND value = ?", ticker, storage.Day(date), label, value).
		Delete(&storage.Record{}).Error
}

func (c *Client) Query(ctx context.Context, f storage.Filter) ([]storage.Record, error) {
	tx := c.DB.WithContext(ctx).Model(&storage.Record{})
	if f.Ticker != "" {
		tx = tx.Where("ticker = ?", f.Ticker)
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		tx = tx.Where("date BETWEEN ? AND ?", storage.Day(f.From), storage.Day(f.To))
	}

	var out []storage.Record
	if err := tx.Order("date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DistinctTickers(ctx context.Context) ([]string, error) {
	var out []string
	err := c.DB.WithContext(ctx).
		Model(&storage.Record{}).
		Distinct("ticker").
		Order("ticker").
		Pluck("ticker", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MaxDate(ctx context.Context, ticker string) (*time.Time, error) {
	var max *time.Time
	err := c.DB.WithContext(ctx).
		Model(&storage.Record{}).
		Where("ticker = ?", ticker).
		Select("MAX(date)").
		Scan(&max).Error
	if err != nil {
		return nil, err
	}
	return max, nil
}

func (c *Client) DeleteLabels(ctx context.Context, ticker string, date time.Time, labels []string) error {
	return c.DB.WithContext(ctx).
		Where("ticker = ? AND date = ? AND label IN ?", ticker, storage.Day(date), labels).
		Delete(&storage.Record{}).Error
}
