package confver

// VersionKey is the reserved key stamped into the serialized form of every
// versioned object. Documents claim the schema version they conform to under
// this key; Encode always writes the type's current version.
const VersionKey = "config_version"

// MigrateFunc transforms the raw field mapping of one schema version into the
// mapping of the next. Implementations may mutate and return their argument;
// values are generic JSON values, not decoded Go types.
type MigrateFunc func(fields map[string]any) map[string]any

// Migration is one registered step of a type's migration chain.
type Migration struct {
	From  string
	To    string
	Apply MigrateFunc
}

// Migrate walks steps in registration order, bringing fields from the
// declared version up to current. Steps whose From matches the running
// version are applied; the walk never searches or reorders, so steps must be
// registered in chain order. When declared already equals current the mapping
// is returned unchanged with zero transform calls.
//
// typeName is used for diagnostics only.
func Migrate(typeName, declared, current string, steps []Migration, fields map[string]any) (map[string]any, error) {
	if declared == current {
		return fields, nil
	}
	running := declared
	for _, st := range steps {
		if st.From != running {
			continue
		}
		fields = st.Apply(fields)
		running = st.To
		if running == current {
			return fields, nil
		}
	}
	return nil, Issues{IssueAt("/", CodeMigrationPath,
		"no migration path from "+declared+" to "+current+" for "+typeName,
		map[string]any{"type": typeName, "declared": declared, "current": current, "reached": running})}
}
