package train

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/timpalpant/go-dql/tictactoe"
)

func TestPlay_AgentWins(t *testing.T) {
	input := strings.NewReader("bogus\n0, 0\n1, 1\n2, 2\n")
	var out bytes.Buffer
	outcome, err := Play(input, &out, &lowestAgent{}, tictactoe.Cross)
	if err != nil {
		t.Fatal(err)
	}

	if outcome != tictactoe.CrossWins {
		t.Errorf("expected X to win, got %v", outcome)
	}

	text := out.String()
	for _, want := range []string{"Invalid input", "Invalid move", "Agent wins!", "| X | X | X |"} {
		if !strings.Contains(text, want) {
			t.Errorf("output is missing %q:\n%s", want, text)
		}
	}
}

func TestPlay_HumanFirst(t *testing.T) {
	// Human X: 4, 3, 5 wins the middle row; agent O plays 0, 1.
	input := strings.NewReader("1, 1\n1, 0\n1, 2\n")
	var out bytes.Buffer
	outcome, err := Play(input, &out, &lowestAgent{}, tictactoe.Nought)
	if err != nil {
		t.Fatal(err)
	}

	if outcome != tictactoe.CrossWins || !strings.Contains(out.String(), "You win!") {
		t.Errorf("expected human win, got %v:\n%s", outcome, out.String())
	}
}

func TestPlay_EOF(t *testing.T) {
	var out bytes.Buffer
	if _, err := Play(strings.NewReader(""), &out, &lowestAgent{}, tictactoe.Nought); err != io.ErrUnexpectedEOF {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}
