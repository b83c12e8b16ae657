package auth

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvStore resolves tokens from environment variables.
//
// Keys are mapped to variable names by upper-casing them, replacing
// characters other than letters, digits and underscore with '_', and
// prepending Prefix. Values read from dotenv files take precedence over
// the process environment.
type EnvStore struct {
	Prefix string
	values map[string]string
}

// NewEnvStore creates an EnvStore. Each file in files is parsed with
// godotenv; a missing or malformed file is an error.
func NewEnvStore(prefix string, files ...string) (*EnvStore, error) {
	s := &EnvStore{Prefix: prefix, values: map[string]string{}}
	if len(files) == 0 {
		return s, nil
	}
	values, err := godotenv.Read(files...)
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

// VarName returns the variable consulted for key.
func (s *EnvStore) VarName(key string) string {
	var b strings.Builder
	b.WriteString(s.Prefix)
	for _, r := range strings.ToUpper(key) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func (s *EnvStore) Lookup(_ context.Context, key string) (string, bool, error) {
	name := s.VarName(key)
	if v, ok := s.values[name]; ok && v != "" {
		return v, true, nil
	}
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}
