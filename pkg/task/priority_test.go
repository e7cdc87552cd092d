package task

import "testing"

func TestClampPriority(t *testing.T) {
	tests := []struct {
		in   int
		want Priority
	}{
		{-5, Low},
		{-1, Low},
		{0, Low},
		{1, Medium},
		{2, High},
		{3, High},
		{99, High},
	}
	for _, tt := range tests {
		if got := ClampPriority(tt.in); got != tt.want {
			t.Errorf("ClampPriority(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPriorityFromNilIsMedium(t *testing.T) {
	if got := PriorityFrom(nil); got != Medium {
		t.Errorf("PriorityFrom(nil) = %d, want %d", got, Medium)
	}
	n := -3
	if got := PriorityFrom(&n); got != Low {
		t.Errorf("PriorityFrom(-3) = %d, want %d", got, Low)
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"low", Low, false},
		{"HIGH", High, false},
		{"medium", Medium, false},
		{" 2 ", High, false},
		{"-7", Low, false},
		{"urgent", Medium, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestPriorityString(t *testing.T) {
	if Low.String() != "low" || Medium.String() != "medium" || High.String() != "high" {
		t.Errorf("unexpected names: %s %s %s", Low, Medium, High)
	}
}
