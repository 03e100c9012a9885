package postgres

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

// ErrServiceNotFound is returned when a named service is not in pg_service.conf
var ErrServiceNotFound = errors.New("service not found")

// ErrNoServiceFile is returned when no pg_service.conf exists in the searched locations
var ErrNoServiceFile = errors.New("no pg_service.conf found in standard locations")

// ServiceEntry represents a PostgreSQL service configuration
type ServiceEntry struct {
	Name     string
	Host     string
	Port     string
	DBName   string
	User     string
	Password string
	SSLMode  string
	Options  map[string]string
}

// ParsePGServiceFile parses the first pg_service.conf found
func ParsePGServiceFile() ([]ServiceEntry, error) {
	for _, path := range getPGServicePaths() {
		if _, err := os.Stat(path); err == nil {
			return parsePGServiceFileAt(path)
		}
	}
	return nil, ErrNoServiceFile
}

// getPGServicePaths lists pg_service.conf locations in lookup order:
// $PGSERVICEFILE, ~/.pg_service.conf, then the system-wide files.
func getPGServicePaths() []string {
	var paths []string
	if envPath := os.Getenv("PGSERVICEFILE"); envPath != "" {
		paths = append(paths, envPath)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".pg_service.conf"))
	}
	return append(paths, "/etc/pg_service.conf", "/etc/postgresql-common/pg_service.conf")
}

func parsePGServiceFileAt(path string) ([]ServiceEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var services []ServiceEntry
	var current *ServiceEntry

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if current != nil {
				services = append(services, *current)
			}
			current = &ServiceEntry{
				Name:    strings.TrimSpace(line[1 : len(line)-1]),
				Options: make(map[string]string),
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if current == nil || !ok {
			continue
		}
		current.set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	if current != nil {
		services = append(services, *current)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return services, nil
}

func (s *ServiceEntry) set(key, value string) {
	switch key {
	case "host":
		s.Host = value
	case "port":
		s.Port = value
	case "dbname":
		s.DBName = value
	case "user":
		s.User = value
	case "password":
		s.Password = value
	case "sslmode":
		s.SSLMode = value
	default:
		if s.Options == nil {
			s.Options = make(map[string]string)
		}
		s.Options[key] = value
	}
}

// fields returns the key=value pairs of the entry, known keys first and
// extra options in key order
func (s *ServiceEntry) fields() [][2]string {
	var out [][2]string
	add := func(k, v string) {
		if v != "" {
			out = append(out, [2]string{k, v})
		}
	}
	add("host", s.Host)
	add("port", s.Port)
	add("dbname", s.DBName)
	add("user", s.User)
	add("password", s.Password)
	add("sslmode", s.SSLMode)

	keys := make([]string, 0, len(s.Options))
	for k := range s.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, s.Options[k])
	}
	return out
}

// ConnectionString returns a lib/pq keyword/value connection string.
// sslmode defaults to prefer.
func (s *ServiceEntry) ConnectionString() string {
	var parts []string
	for _, kv := range s.fields() {
		parts = append(parts, kv[0]+"="+quoteConnValue(kv[1]))
	}
	if s.SSLMode == "" {
		parts = append(parts, "sslmode=prefer")
	}
	return strings.Join(parts, " ")
}

// quoteConnValue single-quotes values containing spaces or quotes
func quoteConnValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Connect opens a database handle for this service
func (s *ServiceEntry) Connect() (*sql.DB, error) {
	return sql.Open("postgres", s.ConnectionString())
}

// TestConnection opens and pings the service
func (s *ServiceEntry) TestConnection(ctx context.Context) error {
	db, err := s.Connect()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", s.Name, err)
	}
	return nil
}

// GetServiceByName finds a service by name from the list
func GetServiceByName(services []ServiceEntry, name string) (*ServiceEntry, error) {
	for i := range services {
		if services[i].Name == name {
			return &services[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrServiceNotFound, name)
}

// OpenService looks name up in pg_service.conf and opens it
func OpenService(name string) (*sql.DB, *ServiceEntry, error) {
	services, err := ParsePGServiceFile()
	if err != nil {
		return nil, nil, err
	}
	entry, err := GetServiceByName(services, name)
	if err != nil {
		return nil, nil, err
	}
	db, err := entry.Connect()
	if err != nil {
		return nil, nil, err
	}
	return db, entry, nil
}

// GetPGServiceFilePath returns the pg_service.conf that SaveServiceEntry writes
func GetPGServiceFilePath() string {
	if envPath := os.Getenv("PGSERVICEFILE"); envPath != "" {
		return envPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".pg_service.conf")
	}
	return ""
}

// SaveServiceEntry adds entry to pg_service.conf, replacing one of the same name
func SaveServiceEntry(entry ServiceEntry) error {
	path := GetPGServiceFilePath()
	if path == "" {
		return fmt.Errorf("could not determine pg_service.conf path")
	}

	var services []ServiceEntry
	if _, err := os.Stat(path); err == nil {
		if services, err = parsePGServiceFileAt(path); err != nil {
			return err
		}
	}

	found := false
	for i := range services {
		if services[i].Name == entry.Name {
			services[i] = entry
			found = true
			break
		}
	}
	if !found {
		services = append(services, entry)
	}

	return writePGServiceFile(path, services)
}

// DeleteServiceEntry removes a service entry from pg_service.conf
func DeleteServiceEntry(name string) error {
	path := GetPGServiceFilePath()
	if path == "" {
		return fmt.Errorf("could not determine pg_service.conf path")
	}

	services, err := parsePGServiceFileAt(path)
	if err != nil {
		return err
	}

	filtered := services[:0]
	for _, s := range services {
		if s.Name != name {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == len(services) {
		return fmt.Errorf("%w: %q", ErrServiceNotFound, name)
	}

	return writePGServiceFile(path, filtered)
}

func writePGServiceFile(path string, services []ServiceEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# PostgreSQL service configuration\n")
	b.WriteString("# Written by kartoza-pg-geom\n\n")

	for _, s := range services {
		fmt.Fprintf(&b, "[%s]\n", s.Name)
		for _, kv := range s.fields() {
			fmt.Fprintf(&b, "%s=%s\n", kv[0], kv[1])
		}
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0600)
}
