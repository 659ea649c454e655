package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/amil/crm"
)

// run executes one command line against the badger store in dir. Stdin is
// never a terminal, so deletes need --yes.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	a := &app{v: viper.New(), version: "test"}
	root := a.rootCmd()
	root.SetArgs(append([]string{"--data-dir", dir, "--backend", BackendBadger, "--log-level", "error"}, args...))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	defer a.close()

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	require.NoError(t, err, "amil %s", strings.Join(args, " "))
	return out
}

var idPattern = regexp.MustCompile(`\(ID: ([^)]+)\)`)

func idFrom(t *testing.T, out string) string {
	t.Helper()
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, "no id in %q", out)
	return m[1]
}

func englishStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, dir, "settings", "set", "language", "en")
	return dir
}

func TestCustomerLifecycle(t *testing.T) {
	dir := englishStore(t)

	out := mustRun(t, dir, "customers", "add", "--name", "Sara Ahmed", "--phone", "0101234567", "--tags", "vip,cairo")
	assert.Contains(t, out, "✓ Customer created: Sara Ahmed")

	out = mustRun(t, dir, "customers", "list")
	assert.Contains(t, out, "Sara Ahmed")
	assert.Contains(t, out, "vip,cairo")

	mustRun(t, dir, "customers", "update", "sara ahmed", "--email", "sara@example.com", "--type", "permanent")
	out = mustRun(t, dir, "customers", "show", "Sara Ahmed")
	assert.Contains(t, out, "sara@example.com")
	assert.Contains(t, out, "Permanent")
	assert.Contains(t, out, "0101234567")

	out = mustRun(t, dir, "customers", "delete", "Sara Ahmed", "--yes")
	assert.Contains(t, out, "✓ Customer deleted: Sara Ahmed")

	out = mustRun(t, dir, "customers", "list")
	assert.Contains(t, out, "No customers")
}

func TestAddCustomerRequiresPhone(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "customers", "add", "--name", "Sara")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone")
}

func TestDeleteWithoutTerminalRefuses(t *testing.T) {
	dir := englishStore(t)
	mustRun(t, dir, "customers", "add", "--name", "Omar", "--phone", "0100")

	_, err := run(t, dir, "customers", "delete", "Omar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out := mustRun(t, dir, "customers", "list")
	assert.Contains(t, out, "Omar")
}

func TestInteractionUpdatesLastContact(t *testing.T) {
	dir := englishStore(t)
	mustRun(t, dir, "customers", "add", "--name", "Sara", "--phone", "0100")

	out := mustRun(t, dir, "interactions", "add", "--customer", "Sara", "--type", "call",
		"--outcome", "positive", "--date", "2024-05-01 10:00", "--notes", "asked for a quote")
	assert.Contains(t, out, "✓ Interaction logged")
	id := idFrom(t, out)

	out = mustRun(t, dir, "interactions", "list", "--outcome", "إيجابي")
	assert.Contains(t, out, "asked for a quote")

	out = mustRun(t, dir, "interactions", "list", "--from", "2024-05-02")
	assert.Contains(t, out, "No interactions recorded")

	out = mustRun(t, dir, "customers", "show", "Sara")
	assert.Contains(t, out, "Interactions (1)")

	mustRun(t, dir, "interactions", "delete", id, "--yes")
	out = mustRun(t, dir, "customers", "show", "Sara")
	assert.Contains(t, out, "Interactions (0)")
}

func TestDealPipelineAndReasons(t *testing.T) {
	dir := englishStore(t)
	mustRun(t, dir, "customers", "add", "--name", "Sara", "--phone", "0100")

	out := mustRun(t, dir, "deals", "add", "--title", "Fit-out", "--customer", "Sara",
		"--value", "1000", "--probability", "50", "--close-date", "2024-07-01")
	assert.Contains(t, out, "✓ Deal created: Fit-out")
	id := idFrom(t, out)

	out = mustRun(t, dir, "deals", "update", id, "--status", "rejected", "--reason", "Price too high")
	assert.Contains(t, out, "Rejected")

	out = mustRun(t, dir, "deals", "reasons", "list")
	assert.Contains(t, out, "Price too high")

	out = mustRun(t, dir, "deals", "pipeline")
	assert.Contains(t, out, "Price too high")
	assert.Contains(t, out, "Rejected")

	out = mustRun(t, dir, "deals", "list", "--status", "ongoing")
	assert.Contains(t, out, "No deals recorded")

	mustRun(t, dir, "deals", "reasons", "remove", "Price too high")
	out = mustRun(t, dir, "deals", "reasons", "list")
	assert.NotContains(t, out, "Price too high")
}

func TestDealUnknownCustomer(t *testing.T) {
	dir := englishStore(t)
	_, err := run(t, dir, "deals", "add", "--title", "X", "--customer", "Nobody", "--close-date", "2024-07-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

func TestTasksDueAndStatus(t *testing.T) {
	dir := englishStore(t)
	due := time.Now().Add(30 * time.Minute).Format("2006-01-02 15:04")

	out := mustRun(t, dir, "tasks", "add", "--title", "Send quote", "--due", due, "--priority", "high")
	assert.Contains(t, out, "✓ Task created: Send quote")
	id := idFrom(t, out)

	out = mustRun(t, dir, "tasks", "due")
	assert.Contains(t, out, "Task Notifications (1)")
	assert.Contains(t, out, "Send quote")

	mustRun(t, dir, "tasks", "status", id, "completed")
	out = mustRun(t, dir, "tasks", "list", "--status", "completed")
	assert.Contains(t, out, "Send quote")

	out = mustRun(t, dir, "tasks", "due")
	assert.Contains(t, out, "Task Notifications (0)")
}

func TestTaskStatusRejectsUnknown(t *testing.T) {
	dir := englishStore(t)
	_, err := run(t, dir, "tasks", "status", "whatever", "finished")
	assert.Error(t, err)
}

func TestBackupRoundTrip(t *testing.T) {
	src := englishStore(t)
	mustRun(t, src, "customers", "add", "--name", "Sara", "--phone", "0100")
	file := filepath.Join(t.TempDir(), "backup.json")

	out := mustRun(t, src, "backup", "export", "-o", file)
	assert.Contains(t, out, "✓ Backup written to "+file)

	dst := t.TempDir()
	out = mustRun(t, dst, "backup", "import", file, "--yes")
	assert.Contains(t, out, "✓ Imported:")

	out = mustRun(t, dst, "customers", "list")
	assert.Contains(t, out, "Sara")
}

func TestImportMalformedBackup(t *testing.T) {
	dir := englishStore(t)
	mustRun(t, dir, "customers", "add", "--name", "Sara", "--phone", "0100")
	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0644))

	_, err := run(t, dir, "backup", "import", file, "--yes")
	assert.ErrorIs(t, err, crm.ErrMalformedBackup)

	out := mustRun(t, dir, "customers", "list")
	assert.Contains(t, out, "Sara")
}

func TestReportJSON(t *testing.T) {
	dir := englishStore(t)
	mustRun(t, dir, "customers", "add", "--name", "Sara", "--phone", "0100")

	out := mustRun(t, dir, "report", "--json")
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.EqualValues(t, 1, report["newCustomers"])
}

func TestReportRejectsInvertedRange(t *testing.T) {
	dir := englishStore(t)
	_, err := run(t, dir, "report", "--from", "2024-05-10", "--to", "2024-05-01")
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "settings", "show")
	assert.Contains(t, out, "EGP")

	mustRun(t, dir, "settings", "set", "language", "english")
	mustRun(t, dir, "settings", "set", "currency", "usd")
	mustRun(t, dir, "settings", "set", "dark-mode", "true")
	out = mustRun(t, dir, "settings", "show")
	assert.Contains(t, out, "Language: en")
	assert.Contains(t, out, "USD")
	assert.Contains(t, out, "Dark Mode: Yes")

	_, err := run(t, dir, "settings", "set", "currency", "XYZ")
	assert.ErrorIs(t, err, crm.ErrValidation)
}

func TestUnknownBackend(t *testing.T) {
	_, err := run(t, t.TempDir(), "--backend", "floppy", "customers", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "--backend", "sqlite", "customers", "add", "--name", "Sara", "--phone", "0100")
	out := mustRun(t, dir, "--backend", "sqlite", "customers", "list")
	assert.Contains(t, out, "Sara")
	assert.FileExists(t, filepath.Join(dir, "amil.db"))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, t.TempDir(), "--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestVersion(t *testing.T) {
	out := mustRun(t, t.TempDir(), "version")
	assert.Equal(t, "amil test\n", out)
}

func TestGraphPipeline(t *testing.T) {
	dir := englishStore(t)
	mustRun(t, dir, "customers", "add", "--name", "Sara", "--phone", "0100")

	out := mustRun(t, dir, "graph", "pipeline")
	assert.Contains(t, out, "digraph")

	_, err := run(t, dir, "graph", "pipeline", "--format", "png")
	assert.Error(t, err)
}

func TestGraphCustomer(t *testing.T) {
	dir := englishStore(t)
	mustRun(t, dir, "customers", "add", "--name", "Sara", "--phone", "0100")
	mustRun(t, dir, "deals", "add", "--title", "Fit-out", "--customer", "Sara", "--close-date", "2024-07-01")

	out := mustRun(t, dir, "graph", "customer", "sara")
	assert.Contains(t, out, "Fit-out")

	_, err := run(t, dir, "graph", "customer", "Nobody")
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

func TestMigrateBadgerToSQLite(t *testing.T) {
	dir := englishStore(t)
	mustRun(t, dir, "customers", "add", "--name", "Sara", "--phone", "0100")

	out := mustRun(t, dir, "migrate", "--to", "sqlite", "--dry-run")
	assert.Contains(t, out, "[dry run]")
	out = mustRun(t, dir, "--backend", "sqlite", "customers", "list")
	assert.NotContains(t, out, "Sara")

	out = mustRun(t, dir, "migrate", "--to", "sqlite")
	assert.Contains(t, out, "✓ Migrated 2 documents from badger to sqlite")

	out = mustRun(t, dir, "--backend", "sqlite", "customers", "list")
	assert.Contains(t, out, "Sara")

	_, err := run(t, dir, "migrate", "--to", "sqlite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	mustRun(t, dir, "--backend", "sqlite", "tasks", "add", "--title", "Stale", "--due", "2024-06-01 09:00")
	out = mustRun(t, dir, "migrate", "--to", "sqlite", "--force", "--backup=false")
	assert.Contains(t, out, "removed from sqlite: crm-tasks")

	out = mustRun(t, dir, "--backend", "sqlite", "tasks", "list")
	assert.Contains(t, out, "No tasks recorded")
	out = mustRun(t, dir, "--backend", "sqlite", "customers", "list")
	assert.Contains(t, out, "Sara")
}

func TestMigrateRejectsSameStore(t *testing.T) {
	dir := englishStore(t)
	_, err := run(t, dir, "migrate", "--to", "badger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both badger")
}
