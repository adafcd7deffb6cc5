package exam

import "strings"

// ParseEnum resolves a raw persisted value against a closed enumeration.
// It tries the display name first, then the symbolic name (case-insensitive),
// and falls back to def. The second return value is false when the fallback
// was used, so decoders can log a soft error without aborting the record.
func ParseEnum[T ~string](raw string, values []T, display func(T) string, def T) (T, bool) {
	if raw == "" {
		return def, false
	}
	for _, v := range values {
		if display(v) == raw {
			return v, true
		}
	}
	upper := strings.ToUpper(raw)
	for _, v := range values {
		if string(v) == upper {
			return v, true
		}
	}
	return def, false
}

// ParseLevel resolves a persisted level value, defaulting to Senior.
func ParseLevel(raw string) (Level, bool) {
	return ParseEnum(raw, Levels(), Level.DisplayName, LevelSenior)
}

// ParseType resolves a persisted exam title value, defaulting to
// Information Systems Project Manager.
func ParseType(raw string) (Type, bool) {
	return ParseEnum(raw, AllTypes(), Type.DisplayName, TypeProjectManager)
}
