package utils

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestLogBeforeInit(t *testing.T) {
	if Log() == nil {
		t.Fatal("Log must never return nil")
	}
	Log().Info("no-op before init")
}

func TestInitLogger(t *testing.T) {
	l, err := InitLogger("development")
	if err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	if Log() != l {
		t.Fatal("Log should return the initialized logger")
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(&types.NoSuchKey{}) {
		t.Fatal("NoSuchKey should map to not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatal("other errors are not not-found")
	}
}
