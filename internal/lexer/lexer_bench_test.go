package lexer

import (
	"bytes"
	"testing"
)

func runBenchmark(b *testing.B, input []byte) {
	b.Helper()
	for i := 0; i < b.N; i++ {
		_, _ = Lex(input, "bench.cc")
	}
}

func BenchmarkRepeatedToken(b *testing.B) {
	runBenchmark(b, bytes.Repeat([]byte(";"), 1000))
}

const helloWorldInput = `
#include <iostream>

int main(int argc, char **argv) {
    std::cout << "Hello, World!" << std::endl;
	return 0;
}
`

func BenchmarkHelloWorld(b *testing.B) {
	runBenchmark(b, []byte(helloWorldInput))
}

func BenchmarkRepeatedHelloWorld(b *testing.B) {
	runBenchmark(b, bytes.Repeat([]byte(helloWorldInput), 100))
}
