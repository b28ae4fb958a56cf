package store

import (
	"fmt"
	"strings"

	"github.com/go-prewash/prewash/pkg/model"
	"github.com/go-prewash/prewash/pkg/prewash"
)

// columnValues resolves the registered fields of an instance to parallel
// column and value slices, in field declaration order.
func columnValues(reg *prewash.Registry, label string, instance any) ([]string, []any, error) {
	info, ok := reg.Models().Lookup(label)
	if !ok {
		return nil, nil, fmt.Errorf("label %q is not a registered model", label)
	}
	fields := info.Fields()
	columns := make([]string, 0, len(fields))
	values := make([]any, 0, len(fields))
	for _, f := range fields {
		v, err := model.Value(instance, f.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", label, err)
		}
		columns = append(columns, f.Name)
		values = append(values, v)
	}
	return columns, values, nil
}

// insertStatement builds an INSERT for every registered field.
func insertStatement(reg *prewash.Registry, label string, instance any) (string, []any, error) {
	columns, values, err := columnValues(reg, label, instance)
	if err != nil {
		return "", nil, err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		TableFor(label), strings.Join(columns, ", "), placeholders)
	return query, values, nil
}

// updateStatement builds an UPDATE keyed on the primary-key column, which is
// excluded from the SET list.
func updateStatement(reg *prewash.Registry, label string, instance any, pk string) (string, []any, error) {
	columns, values, err := columnValues(reg, label, instance)
	if err != nil {
		return "", nil, err
	}

	var pkValue any
	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	found := false
	for i, col := range columns {
		if col == pk {
			pkValue = values[i]
			found = true
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, values[i])
	}
	if !found {
		return "", nil, fmt.Errorf("%s has no primary key column %q", label, pk)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		TableFor(label), strings.Join(sets, ", "), pk)
	return query, append(args, pkValue), nil
}
