package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"mc-exchange-api/internal/model"
)

func nullableInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// buildExchangeFilter renders the WHERE clause for an exchange listing.
// placeholder renders the n-th bind marker ("?" for SQLite/MySQL, "$n" for
// PostgreSQL).
func buildExchangeFilter(f model.ExchangeFilter, placeholder func(n int) string) (string, []interface{}) {
	var conds []string
	var args []interface{}

	next := func() string {
		return placeholder(len(args))
	}

	if f.Shop != "" {
		args = append(args, f.Shop)
		conds = append(conds, "shop = "+next())
	}
	if f.Player != "" {
		args = append(args, f.Player)
		conds = append(conds, "player = "+next())
	}
	if f.Item != "" {
		args = append(args, f.Item)
		first := next()
		args = append(args, f.Item)
		second := next()
		conds = append(conds, "(input_item_id = "+first+" OR output_item_id = "+second+")")
	}
	if f.Since != nil {
		args = append(args, f.Since.UTC())
		conds = append(conds, "ts >= "+next())
	}
	if f.Until != nil {
		args = append(args, f.Until.UTC())
		conds = append(conds, "ts <= "+next())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanExchangeRows reads rows selected with "id, <exchangeColumns>".
func scanExchangeRows(rows *sql.Rows) ([]model.ExchangeEvent, error) {
	events := []model.ExchangeEvent{}
	for rows.Next() {
		var ev model.ExchangeEvent
		var x, y, z, possible sql.NullInt64
		var shop, inEnch, outEnch sql.NullString

		err := rows.Scan(
			&ev.ID, &ev.HashID, &ev.TS, &ev.Player,
			&x, &y, &z,
			&ev.Dimension, &ev.LocSrc,
			&ev.InputItemID, &ev.InputQty, &ev.OutputItemID, &ev.OutputQty,
			&possible,
			&ev.CompactedInput, &ev.CompactedOutput,
			&inEnch, &outEnch,
			&ev.Raw, &shop,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange event: %w", err)
		}

		if x.Valid {
			ev.X = &x.Int64
		}
		if y.Valid {
			ev.Y = &y.Int64
		}
		if z.Valid {
			ev.Z = &z.Int64
		}
		if possible.Valid {
			ev.ExchangePossible = &possible.Int64
		}
		if shop.Valid {
			ev.Shop = &shop.String
		}
		if inEnch.Valid {
			if ev.InputEnchants, err = unmarshalStrings(inEnch.String); err != nil {
				return nil, err
			}
		}
		if outEnch.Valid {
			if ev.OutputEnchants, err = unmarshalStrings(outEnch.String); err != nil {
				return nil, err
			}
		}

		events = append(events, ev)
	}
	return events, rows.Err()
}
