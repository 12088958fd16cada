package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestOpenMissingFile(t *testing.T) {
	s := openTestStore(t)
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
	if s.LoadErr() != nil {
		t.Errorf("LoadErr: got %v, want nil", s.LoadErr())
	}
}

func TestOpenCreatesStorageDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "storage")
	if _, err := Open(dir); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("expected %s to be a directory: %v", dir, err)
	}
}

func TestOpenInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("not json{"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open should not fail on corrupt content: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("corrupt file should yield empty store, got %d tasks", s.Len())
	}
	if s.LoadErr() == nil {
		t.Error("LoadErr should report the parse failure")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	for _, desc := range []string{"Buy milk", "Walk dog", "Write report"} {
		if _, err := s.Add(desc); err != nil {
			t.Fatalf("Add(%q) failed: %v", desc, err)
		}
	}
	if _, err := s.MarkStatus(2, StatusDone); err != nil {
		t.Fatalf("MarkStatus failed: %v", err)
	}

	loaded, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	want := s.List("")
	got := loaded.List("")
	if len(got) != len(want) {
		t.Fatalf("task count: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("task %d: ID got %d, want %d", i, got[i].ID, want[i].ID)
		}
		if got[i].Description != want[i].Description {
			t.Errorf("task %d: Description got %q, want %q", i, got[i].Description, want[i].Description)
		}
		if got[i].Status != want[i].Status {
			t.Errorf("task %d: Status got %q, want %q", i, got[i].Status, want[i].Status)
		}
		if got[i].CreatedAt.String() != want[i].CreatedAt.String() {
			t.Errorf("task %d: CreatedAt got %s, want %s", i, got[i].CreatedAt, want[i].CreatedAt)
		}
		if got[i].UpdatedAt.String() != want[i].UpdatedAt.String() {
			t.Errorf("task %d: UpdatedAt got %s, want %s", i, got[i].UpdatedAt, want[i].UpdatedAt)
		}
	}
}

func TestSaveOutputFormat(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Add("Test task"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "\n  {") {
		t.Errorf("expected 2-space indentation, got:\n%s", content)
	}
	if !strings.HasSuffix(content, "\n") {
		t.Error("expected trailing newline")
	}
	if !strings.HasPrefix(strings.TrimSpace(content), "[") {
		t.Error("expected a top-level JSON array")
	}
}

func TestNextID(t *testing.T) {
	s := openTestStore(t)
	if got := s.NextID(); got != 1 {
		t.Errorf("NextID on empty store: got %d, want 1", got)
	}

	for i := 0; i < 5; i++ {
		if _, err := s.Add("task"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	for _, id := range []int{2, 4} {
		if _, err := s.Delete(id); err != nil {
			t.Fatalf("Delete(%d) failed: %v", id, err)
		}
	}

	// Remaining ids are {1,3,5}; ids are never reused.
	if got := s.NextID(); got != 6 {
		t.Errorf("NextID after deletions: got %d, want 6", got)
	}
}

func TestAdd(t *testing.T) {
	s := openTestStore(t)

	tk, err := s.Add("Buy milk")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if tk.ID != 1 {
		t.Errorf("ID: got %d, want 1", tk.ID)
	}
	if tk.Status != StatusTodo {
		t.Errorf("Status: got %q, want todo", tk.Status)
	}
	if tk.Description != "Buy milk" {
		t.Errorf("Description: got %q, want Buy milk", tk.Description)
	}
	if !tk.CreatedAt.Equal(tk.UpdatedAt.Time) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", tk.CreatedAt, tk.UpdatedAt)
	}
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)
	added, err := s.Add("Old Task")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	found, err := s.Update(added.ID, "Updated Task")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !found {
		t.Fatal("Update should find the task")
	}

	got, ok := s.GetByID(added.ID)
	if !ok {
		t.Fatal("GetByID should find the task")
	}
	if got.Description != "Updated Task" {
		t.Errorf("Description: got %q, want Updated Task", got.Description)
	}
	if got.Status != added.Status {
		t.Errorf("Status changed on update: got %q, want %q", got.Status, added.Status)
	}
	if got.CreatedAt.String() != added.CreatedAt.String() {
		t.Errorf("CreatedAt changed on update: got %s, want %s", got.CreatedAt, added.CreatedAt)
	}
	if got.UpdatedAt.Before(added.UpdatedAt.Time) {
		t.Errorf("UpdatedAt went backwards: %v < %v", got.UpdatedAt, added.UpdatedAt)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Add("Only task"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	before := s.List("")

	found, err := s.Update(99, "nope")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if found {
		t.Error("Update should report not found for id 99")
	}

	after := s.List("")
	if len(after) != len(before) || after[0].Description != before[0].Description {
		t.Error("store changed on not-found update")
	}
}

// Update and MarkStatus must locate tasks by id, not by slice
// position; after deletions the two diverge.
func TestUpdateAfterDeletionUsesIDLookup(t *testing.T) {
	s := openTestStore(t)
	for _, desc := range []string{"first", "second", "third"} {
		if _, err := s.Add(desc); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if _, err := s.Delete(1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	found, err := s.Update(3, "third updated")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !found {
		t.Fatal("Update should find id 3 in non-contiguous store")
	}

	got, _ := s.GetByID(3)
	if got.Description != "third updated" {
		t.Errorf("Description: got %q, want %q", got.Description, "third updated")
	}
	untouched, _ := s.GetByID(2)
	if untouched.Description != "second" {
		t.Errorf("wrong task mutated: id 2 is now %q", untouched.Description)
	}

	found, err = s.MarkStatus(3, StatusDone)
	if err != nil || !found {
		t.Fatalf("MarkStatus(3) = %v, %v; want found", found, err)
	}
	if got, _ := s.GetByID(2); got.Status != StatusTodo {
		t.Errorf("wrong task marked: id 2 is now %q", got.Status)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	for _, desc := range []string{"first", "second", "third"} {
		if _, err := s.Add(desc); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	found, err := s.Delete(2)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !found {
		t.Fatal("Delete should find id 2")
	}

	rest := s.List("")
	if len(rest) != 2 {
		t.Fatalf("Len: got %d, want 2", len(rest))
	}
	if rest[0].ID != 1 || rest[1].ID != 3 {
		t.Errorf("relative order broken: got ids %d,%d, want 1,3", rest[0].ID, rest[1].ID)
	}

	found, err = s.Delete(2)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if found {
		t.Error("second delete of id 2 should report not found")
	}
	if s.Len() != 2 {
		t.Errorf("store changed on not-found delete: %d tasks", s.Len())
	}
}

func TestMarkStatus(t *testing.T) {
	s := openTestStore(t)
	added, err := s.Add("Sample Task")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	found, err := s.MarkStatus(added.ID, StatusDone)
	if err != nil {
		t.Fatalf("MarkStatus failed: %v", err)
	}
	if !found {
		t.Fatal("MarkStatus should find the task")
	}

	got, _ := s.GetByID(added.ID)
	if got.Status != StatusDone {
		t.Errorf("Status: got %q, want done", got.Status)
	}
	if got.Description != added.Description {
		t.Errorf("Description changed on mark: got %q", got.Description)
	}
	if got.CreatedAt.String() != added.CreatedAt.String() {
		t.Errorf("CreatedAt changed on mark: got %s", got.CreatedAt)
	}

	found, err = s.MarkStatus(42, StatusDone)
	if err != nil {
		t.Fatalf("MarkStatus failed: %v", err)
	}
	if found {
		t.Error("MarkStatus should report not found for id 42")
	}
}

func TestGetByID(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Add("Sample Task"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, ok := s.GetByID(1)
	if !ok {
		t.Fatal("GetByID(1) should find the task")
	}
	if got.Description != "Sample Task" {
		t.Errorf("Description: got %q, want Sample Task", got.Description)
	}

	if _, ok := s.GetByID(999); ok {
		t.Error("GetByID(999) should report not found")
	}
}

func TestListFilter(t *testing.T) {
	s := openTestStore(t)
	for _, desc := range []string{"one", "two", "three"} {
		if _, err := s.Add(desc); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	for _, id := range []int{2, 3} {
		if _, err := s.MarkStatus(id, StatusDone); err != nil {
			t.Fatalf("MarkStatus(%d) failed: %v", id, err)
		}
	}

	all := s.List("")
	if len(all) != 3 {
		t.Errorf("List(\"\"): got %d tasks, want 3", len(all))
	}

	done := s.List(StatusDone)
	if len(done) != 2 {
		t.Fatalf("List(done): got %d tasks, want 2", len(done))
	}
	if done[0].ID != 2 || done[1].ID != 3 {
		t.Errorf("filtered order: got ids %d,%d, want 2,3", done[0].ID, done[1].ID)
	}

	if got := s.List(StatusInProgress); len(got) != 0 {
		t.Errorf("List(in-progress): got %d tasks, want 0", len(got))
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Add("original"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	out := s.List("")
	out[0].Description = "mutated"

	got, _ := s.GetByID(1)
	if got.Description != "original" {
		t.Error("List result aliases the store's internal slice")
	}
}
