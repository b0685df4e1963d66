package repository

import (
	"math/big"
	"strings"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input safe to embed in a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func applyFilter(q squirrel.SelectBuilder, f models.TransactionFilter) squirrel.SelectBuilder {
	q = q.Where(squirrel.Eq{"is_deleted": false})
	q = applyDateRange(q, models.DateRange{Start: f.StartDate, End: f.EndDate})

	if f.Type != nil {
		q = q.Where(squirrel.Eq{"type": string(*f.Type)})
	}
	if f.Category != nil {
		q = q.Where(squirrel.Eq{"category": *f.Category})
	}
	if f.MinAmount != nil {
		q = q.Where(squirrel.GtOrEq{"amount": toNumeric(*f.MinAmount)})
	}
	if f.MaxAmount != nil {
		q = q.Where(squirrel.LtOrEq{"amount": toNumeric(*f.MaxAmount)})
	}
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		q = q.Where(squirrel.ILike{"description": "%" + escapeLike(term) + "%"})
	}
	return q
}

func applyDateRange(q squirrel.SelectBuilder, r models.DateRange) squirrel.SelectBuilder {
	if r.Start != nil {
		q = q.Where(squirrel.GtOrEq{"date": models.DateOnly(*r.Start)})
	}
	if r.End != nil {
		q = q.Where(squirrel.LtOrEq{"date": models.DateOnly(*r.End)})
	}
	return q
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Set(n.Int), n.Exp)
}
