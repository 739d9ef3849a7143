package assoweb

import "strconv"

// FormOption is one choice in a select field.
type FormOption struct {
	Value    string
	Label    string
	Selected bool
}

// FormField describes one input in an admin form. Type is the HTML input
// type, plus "textarea" and "select".
type FormField struct {
	Name    string
	Label   string
	Type    string
	Value   string
	Checked bool
	Rows    int
	Options []FormOption
}

// FormSpec is a declarative admin form. The engine builds one per entity and
// hands it to the user's AdminForm component, so a single template renders
// every back-office editor.
type FormSpec struct {
	Title        string
	Action       string
	DeleteAction string // empty for new entities
	Fields       []FormField
}

func hiddenField(name string, value int64) FormField {
	return FormField{Name: name, Type: "hidden", Value: strconv.FormatInt(value, 10)}
}

func textField(name, label, value string) FormField {
	return FormField{Name: name, Label: label, Type: "text", Value: value}
}

func textareaField(name, label, value string, rows int) FormField {
	return FormField{Name: name, Label: label, Type: "textarea", Value: value, Rows: rows}
}

func checkboxField(name, label string, checked bool) FormField {
	return FormField{Name: name, Label: label, Type: "checkbox", Checked: checked}
}

func selectField(name, label string, selected int64, opts []FormOption) FormField {
	sel := strconv.FormatInt(selected, 10)
	for i := range opts {
		opts[i].Selected = opts[i].Value == sel
	}
	return FormField{Name: name, Label: label, Type: "select", Options: opts}
}
