package resultstore

import "testing"

func TestOpenRecordAndQuery(t *testing.T) {
	s, err := Open(DriverSQLitePure, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Record(2, 2, "AQI=", 7, "exited"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := s.Record(2, 2, "AQQ=", 12, "exited"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	best, err := s.BestByWidthHeight(2, 2)
	if err != nil {
		t.Fatalf("BestByWidthHeight: %v", err)
	}
	if best != 12 {
		t.Fatalf("BestByWidthHeight(2,2) = %d, want 12", best)
	}
}

func TestBestByWidthHeightEmpty(t *testing.T) {
	s, err := Open(DriverSQLitePure, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	best, err := s.BestByWidthHeight(3, 3)
	if err != nil {
		t.Fatalf("BestByWidthHeight: %v", err)
	}
	if best != 0 {
		t.Fatalf("BestByWidthHeight on an empty store = %d, want 0", best)
	}
}

func TestDriverNameRejectsUnknown(t *testing.T) {
	if _, err := Open("not-a-real-driver", "whatever"); err == nil {
		t.Fatal("Open with an unknown driver kind should fail before touching database/sql")
	}
}
