package main

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
)

// loadLeads reads a JSON array of leads. Invalid records are kept (the
// pipeline degrades gracefully) but logged as warnings.
func loadLeads(path string) ([]*model.Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read leads file %s", path)
	}

	var leads []*model.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, eris.Wrapf(err, "parse leads file %s", path)
	}

	validate := validator.New()
	for _, l := range leads {
		if l == nil {
			continue
		}
		if err := validate.Struct(l); err != nil {
			zap.L().Warn("lead failed validation",
				zap.String("lead_id", l.ID),
				zap.String("lead", l.Name),
				zap.Error(err),
			)
		}
	}

	return leads, nil
}

// saveLeads writes results as indented JSON to path, or stdout for "-".
func saveLeads(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal results")
	}
	data = append(data, '\n')

	if path == "-" || path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write results file %s", path)
	}
	return nil
}
