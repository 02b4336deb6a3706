package main

import "testing"

func TestRetrySend(t *testing.T) {
	if !retrySend(false) {
		t.Error("first failure should requeue the job")
	}
	if retrySend(true) {
		t.Error("redelivered job should be dropped, not requeued")
	}
}
