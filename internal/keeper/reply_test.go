package keeper

import (
	"errors"
	"strings"
	"testing"
)

func TestReplyKinds(t *testing.T) {
	if !(Reply{}).IsEmpty() {
		t.Error("zero reply should be empty")
	}
	plain := falteredReply(errors.New("boom"))
	if plain.IsEmbed() || plain.IsEmpty() {
		t.Errorf("faltered reply should be plain text, got %+v", plain)
	}
	if !strings.Contains(plain.Text, "```boom```") {
		t.Errorf("expected detail in code block, got %q", plain.Text)
	}
	if !HelpReply("!").IsEmbed() {
		t.Error("help should render as embed")
	}
}

func TestHelpAndIntroUsePrefix(t *testing.T) {
	for name, reply := range map[string]Reply{"help": HelpReply("?"), "intro": IntroReply("?")} {
		if !strings.Contains(reply.Description, "`?server on`") || !strings.Contains(reply.Description, "`?help`") {
			t.Errorf("%s should reference the configured prefix: %q", name, reply.Description)
		}
		if reply.Footer != footerCodex || reply.Color != colorCodex {
			t.Errorf("%s has unexpected styling %+v", name, reply)
		}
	}
}
