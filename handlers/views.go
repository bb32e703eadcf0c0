package handlers

import (
	"glassclass/models"
	"glassclass/services"
)

type FormField struct {
	Name  string
	Label string
	Value string
	Error string
}

type FormView struct {
	Title     string
	Fields    []FormField
	HasErrors bool
}

type ResultView struct {
	Title          string
	Classification string
	Error          string
}

type HistoryView struct {
	Title   string
	Records []models.PredictionRecord
}

// newFormView lays the fields out in canonical order, carrying forward any
// submitted values and their errors.
func newFormView(values map[string]string, errs services.FieldErrors) FormView {
	view := FormView{Title: "Glass type prediction", HasErrors: len(errs) > 0}
	for _, name := range models.FieldNames {
		view.Fields = append(view.Fields, FormField{
			Name:  name,
			Label: models.FieldLabels[name],
			Value: values[name],
			Error: errs[name],
		})
	}
	return view
}
