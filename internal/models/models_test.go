package models

import "testing"

func TestIsValidStateType(t *testing.T) {
	cases := []struct {
		state StateType
		valid bool
	}{
		{StateNone, true},
		{StateName, true},
		{StateAge, true},
		{StateDate, true},
		{StateType(""), false},
		{StateType("BOGUS"), false},
		{StateType("name"), false},
	}

	for _, c := range cases {
		if got := IsValidStateType(c.state); got != c.valid {
			t.Errorf("IsValidStateType(%q) = %v, want %v", c.state, got, c.valid)
		}
	}
}

func TestUserProfileLifecycle(t *testing.T) {
	profile := UserProfile{ParticipantID: "p_123"}

	if !profile.IsEmpty() {
		t.Error("fresh profile should be empty")
	}
	if profile.IsComplete() {
		t.Error("fresh profile should not be complete")
	}
	if err := profile.Validate(); err != nil {
		t.Errorf("profile with participant ID should validate, got %v", err)
	}

	profile.Name = "Ada"
	if profile.IsEmpty() {
		t.Error("profile with a name should not be empty")
	}
	if profile.IsComplete() {
		t.Error("profile with only a name should not be complete")
	}

	profile.Age = 30
	profile.Date = "02/01/2030"
	if !profile.IsComplete() {
		t.Error("profile with all slots should be complete")
	}

	profile.ClearSlots()
	if !profile.IsEmpty() {
		t.Error("cleared profile should be empty")
	}
	if profile.ParticipantID != "p_123" {
		t.Error("ClearSlots should keep the participant identity")
	}
}

func TestUserProfileValidateRequiresParticipantID(t *testing.T) {
	profile := UserProfile{}
	if err := profile.Validate(); err != ErrEmptyParticipantID {
		t.Errorf("expected ErrEmptyParticipantID, got %v", err)
	}
}

func TestUserProfileJSONRoundTrip(t *testing.T) {
	original := UserProfile{ParticipantID: "p_abc", Name: "Tomaž", Age: 25, Date: "11/03/2026"}

	data, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var restored UserProfile
	if err := restored.FromJSON(data); err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if restored.ParticipantID != original.ParticipantID || restored.Name != original.Name ||
		restored.Age != original.Age || restored.Date != original.Date {
		t.Errorf("round trip mismatch: got %+v, want %+v", restored, original)
	}
}

func TestAPIResponseHelpers(t *testing.T) {
	ok := Success(map[string]string{"key": "value"})
	if ok.Status != string(APIStatusOK) {
		t.Errorf("Success status = %q, want %q", ok.Status, APIStatusOK)
	}
	if ok.Result == nil {
		t.Error("Success should carry the result")
	}

	withMsg := SuccessWithMessage("done", nil)
	if withMsg.Status != string(APIStatusOK) || withMsg.Message != "done" {
		t.Errorf("SuccessWithMessage = %+v", withMsg)
	}

	errResp := Error("boom")
	if errResp.Status != string(APIStatusError) || errResp.Message != "boom" {
		t.Errorf("Error = %+v", errResp)
	}
}
