package aiken

import "os"

// SampleContent is a small, known-good Aiken file used by the
// --create-sample flag so users have a starting point to edit.
const SampleContent = `What is the capital of France?
A) London
B) Paris
C) Madrid
D) Rome
ANSWER: B

How many days are there in a week?
A) 5
B) 6
C) 7
D) 8
ANSWER: C

What is the result of 2 + 2?
A) 3
B) 4
C) 5
D) 6
ANSWER: B

In which year did Columbus reach the Americas?
A) 1490
B) 1491
C) 1492
D) 1493
ANSWER: C

Which is the largest ocean on Earth?
A) Atlantic
B) Indian
C) Arctic
D) Pacific
ANSWER: D
`

// WriteSample writes the example Aiken file to path.
func WriteSample(path string) error {
	return os.WriteFile(path, []byte(SampleContent), 0o644)
}
