package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldError        = "error"
	FieldErrorKind    = "error_kind"
	FieldOperation    = "operation"
	FieldMode         = "mode"
	FieldPeriod       = "period"
	FieldRate         = "rate"
	FieldCategoryID   = "category_id"
	FieldCategoryName = "category_name"
	FieldOldAmount    = "old_millicents"
	FieldNewAmount    = "new_millicents"
	FieldStatus       = "status"
	FieldReason       = "reason"
	FieldDuration     = "duration_ms"
	FieldParameter    = "parameter"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentReconciler = "reconciler"
	ComponentScheduler  = "scheduler"
	ComponentStats      = "stats"
	ComponentBudget     = "budget"
	ComponentParams     = "params"
	ComponentStorage    = "storage"
	ComponentNotify     = "notify"
	ComponentAMQP       = "amqp"
	ComponentSheets     = "sheets"
)

// Operations defines standard operation names
const (
	OpFetch   = "fetch"
	OpResolve = "resolve"
	OpRead    = "read"
	OpUpdate  = "update"
	OpNotify  = "notify"
	OpLock    = "lock"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error message and its classification
func (f LogFields) WithError(err error, kind string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		if kind != "" {
			f[FieldErrorKind] = kind
		}
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithCategory adds category identification fields
func (f LogFields) WithCategory(id, name string) LogFields {
	f[FieldCategoryID] = id
	if name != "" {
		f[FieldCategoryName] = name
	}
	return f
}

// WithAmounts adds the target change in millicents
func (f LogFields) WithAmounts(oldMillicents, newMillicents int64) LogFields {
	f[FieldOldAmount] = oldMillicents
	f[FieldNewAmount] = newMillicents
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
