package migrations_test

import (
	"bufio"
	"bytes"
	"io/fs"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niseko/migrations"

	authDto "niseko/internal/domains/auth/model/dto"
	guestDto "niseko/internal/domains/guest/model/dto"
	taskDto "niseko/internal/domains/task/model/dto"
	userDto "niseko/internal/domains/user/model/dto"
)

var (
	createTable = regexp.MustCompile(`^CREATE TABLE IF NOT EXISTS (\w+)`)
	alterColumn = regexp.MustCompile(`^ALTER TABLE (\w+) ALTER COLUMN (\w+) TYPE VARCHAR\((\d+)\)`)
	column      = regexp.MustCompile(`^\s+(\w+)\s+VARCHAR\((\d+)\)`)
	maxRule     = regexp.MustCompile(`\bmax=(\d+)`)
)

// varcharWidths replays the up migrations and returns the final width of every VARCHAR column per table.
func varcharWidths(t *testing.T) map[string]map[string]int {
	t.Helper()

	files, err := fs.Glob(migrations.Postgres, migrations.PostgresDir+"/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	widths := map[string]map[string]int{}
	set := func(table, col, width string) {
		n, err := strconv.Atoi(width)
		require.NoError(t, err)

		if widths[table] == nil {
			widths[table] = map[string]int{}
		}

		widths[table][col] = n
	}

	for _, file := range files {
		body, err := fs.ReadFile(migrations.Postgres, file)
		require.NoError(t, err)

		table := ""
		scanner := bufio.NewScanner(bytes.NewReader(body))

		for scanner.Scan() {
			line := scanner.Text()

			if m := createTable.FindStringSubmatch(line); m != nil {
				table = m[1]

				continue
			}

			if m := alterColumn.FindStringSubmatch(line); m != nil {
				set(m[1], m[2], m[3])

				continue
			}

			if m := column.FindStringSubmatch(line); m != nil && table != "" {
				set(table, m[1], m[2])
			}
		}
	}

	return widths
}

func TestVarcharColumnsFitValidation(t *testing.T) {
	widths := varcharWidths(t)

	tests := []struct {
		table   string
		request any
	}{
		{table: "guest_registrations", request: guestDto.CheckInRequest{}},
		{table: "staff_tasks", request: taskDto.CreateTaskRequest{}},
		{table: "staff_tasks", request: taskDto.UpdateTaskRequest{}},
		{table: "users", request: authDto.RegisterRequest{}},
		{table: "users", request: userDto.UpdateUserRequest{}},
	}

	for _, tt := range tests {
		typ := reflect.TypeOf(tt.request)

		t.Run(typ.Name(), func(t *testing.T) {
			columns, ok := widths[tt.table]
			require.True(t, ok, "table %s not found in migrations", tt.table)

			for i := range typ.NumField() {
				field := typ.Field(i)

				name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
				rule := maxRule.FindStringSubmatch(field.Tag.Get("validate"))

				width, isVarchar := columns[name]
				if rule == nil || !isVarchar {
					continue
				}

				limit, err := strconv.Atoi(rule[1])
				require.NoError(t, err)

				assert.LessOrEqual(t, limit, width, "%s.%s accepts %d characters but stores %d", tt.table, name, limit, width)
			}
		})
	}
}

func TestVarcharWidths_RegisteredAt(t *testing.T) {
	widths := varcharWidths(t)

	// "Mon Jan 02 2026 10:00:00 GMT+0900 (Japan Standard Time)"
	assert.GreaterOrEqual(t, widths["guest_registrations"]["registered_at"], 55)
	assert.Equal(t, 255, widths["staff_tasks"]["title"])
}
