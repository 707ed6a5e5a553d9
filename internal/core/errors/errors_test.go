package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestDomainErrorMessage(t *testing.T) {
	err := New(CodeParseError, "syntax error")
	if !strings.Contains(err.Error(), "PARSE_ERROR") {
		t.Errorf("missing code in message: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "syntax error") {
		t.Errorf("missing message: %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, CodeInternal, "pipeline failed")
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeNotFound, "missing file")
	if !IsCode(err, CodeNotFound) {
		t.Error("expected CodeNotFound")
	}
	if IsCode(err, CodeParseError) {
		t.Error("did not expect CodeParseError")
	}
	if IsCode(stderrors.New("plain"), CodeNotFound) {
		t.Error("plain error should have no code")
	}
}

func TestAddContext(t *testing.T) {
	err := AddContext(New(CodeParseError, "bad file"), CtxPath, "src/a.py")
	if !strings.Contains(err.Error(), "src/a.py") {
		t.Errorf("context missing from message: %q", err.Error())
	}

	plain := AddContext(stderrors.New("plain"), CtxOperation, "scan")
	if !IsCode(plain, CodeInternal) {
		t.Error("plain errors should be promoted to INTERNAL_ERROR")
	}
}
