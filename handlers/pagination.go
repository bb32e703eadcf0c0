package handlers

import (
	"strconv"
	"strings"
	"time"

	"glassclass/models"
	"glassclass/services"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// RecordPage is one page of the newest-first record listing. NextCursor is
// "<created_at RFC3339Nano>,<id>" of the last row and goes back as ?before=
// for the next page.
type RecordPage struct {
	Data       []models.PredictionRecord `json:"data"`
	NextCursor string                    `json:"next_cursor,omitempty"`
	HasMore    bool                      `json:"has_more"`
}

type pageQuery struct {
	limit  int
	before *services.PageCursor
}

// parsePageQuery never fails the request; bad limit or before values are ignored.
func parsePageQuery(c *gin.Context) pageQuery {
	q := pageQuery{limit: defaultPageSize}

	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		q.limit = min(n, maxPageSize)
	}
	if cursor, ok := decodeCursor(c.Query("before")); ok {
		q.before = cursor
	}
	return q
}

func encodeCursor(r models.PredictionRecord) string {
	return r.CreatedAt.Format(time.RFC3339Nano) + "," + strconv.FormatUint(uint64(r.ID), 10)
}

// decodeCursor also accepts a bare timestamp, which pages on time alone.
func decodeCursor(raw string) (*services.PageCursor, bool) {
	if raw == "" {
		return nil, false
	}
	ts, id, hasID := strings.Cut(raw, ",")
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, false
	}
	cursor := &services.PageCursor{CreatedAt: t}
	if hasID {
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil || n == 0 {
			return nil, false
		}
		cursor.ID = uint(n)
	}
	return cursor, true
}

// newRecordPage trims the extra lookahead row fetched by ListPage.
func newRecordPage(rows []models.PredictionRecord, limit int) RecordPage {
	page := RecordPage{Data: rows, HasMore: len(rows) > limit}
	if page.HasMore {
		page.Data = rows[:limit]
		page.NextCursor = encodeCursor(page.Data[limit-1])
	}
	if page.Data == nil {
		page.Data = []models.PredictionRecord{}
	}
	return page
}
