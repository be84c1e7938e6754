package handlers

import (
	"strconv"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxPageSize = 100

// queryParser собирает ошибки разбора query-параметров, первая ошибка — ответ 400.
type queryParser struct {
	c     *gin.Context
	field string
	msg   string
}

func (p *queryParser) fail(field, msg string) {
	if p.field == "" {
		p.field, p.msg = field, msg
	}
}

func (p *queryParser) ok() bool { return p.field == "" }

func (p *queryParser) integer(name string, def int) int {
	s := p.c.Query(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		p.fail(name, "must be a non-negative integer")
		return def
	}
	return v
}

func (p *queryParser) page() (limit, offset int) {
	limit = p.integer("limit", 20)
	switch {
	case limit == 0:
		limit = 20
	case limit > maxPageSize:
		limit = maxPageSize
	}
	return limit, p.integer("offset", 0)
}

func (p *queryParser) int32Ptr(name string) *int32 {
	s := p.c.Query(name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		p.fail(name, "must be an integer")
		return nil
	}
	n := int32(v)
	return &n
}

func (p *queryParser) cents(name string) *int64 {
	s := p.c.Query(name)
	if s == "" {
		return nil
	}
	v, err := validation.ParseCents(s)
	if err != nil {
		p.fail(name, "must be a decimal amount with at most two fraction digits")
		return nil
	}
	return &v
}

// date принимает RFC3339 или дату YYYY-MM-DD.
func (p *queryParser) date(name string) *time.Time {
	s := p.c.Query(name)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	p.fail(name, "must be RFC3339 or YYYY-MM-DD")
	return nil
}

func (p *queryParser) id(name string) *uuid.UUID {
	s := p.c.Query(name)
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		p.fail(name, "must be a UUID")
		return nil
	}
	return &id
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "id", "must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (p *queryParser) reject() {
	badRequest(p.c, p.field, p.msg)
}
