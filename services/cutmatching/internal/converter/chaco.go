// Package converter читает графы во внешних форматах.
package converter

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"cutmatching/pkg/apperror"
	"cutmatching/services/cutmatching/internal/graph"
)

const maxLineSize = 64 << 20

// chacoFormat описывает поле fmt заголовка: цифры справа налево означают
// веса рёбер, веса вершин и размеры вершин.
type chacoFormat struct {
	edgeWeights   bool
	vertexWeights bool
}

func parseFormat(s string) (chacoFormat, error) {
	if len(s) > 3 || strings.Trim(s, "01") != "" {
		return chacoFormat{}, apperror.Malformed("unsupported format code %q", s)
	}
	s = strings.Repeat("0", 3-len(s)) + s
	if s[0] == '1' {
		return chacoFormat{}, apperror.Malformed("vertex sizes (format %q) are not supported", s)
	}
	return chacoFormat{
		vertexWeights: s[1] == '1',
		edgeWeights:   s[2] == '1',
	}, nil
}

// ReadChaco читает граф в формате CHACO/METIS.
//
// Первая строка без комментария: "n m [fmt]". Далее ровно n строк, строка i
// перечисляет соседей вершины i; вершины нумеруются с 1. Пустая строка означает
// изолированную вершину. Строки, начинающиеся с '%', пропускаются. При fmt с
// весами рёбер соседи идут парами "v w".
//
// Несогласованный ввод возвращает ошибку CodeMalformedInput.
func ReadChaco(r io.Reader) (*graph.Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	next := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			line := scanner.Text()
			if strings.HasPrefix(strings.TrimSpace(line), "%") {
				continue
			}
			return line, true
		}
		return "", false
	}

	// Заголовок
	var header []string
	for {
		line, ok := next()
		if !ok {
			if err := scanner.Err(); err != nil {
				return nil, apperror.Wrap(err, apperror.CodeMalformedInput, "failed to read header")
			}
			return nil, apperror.Malformed("missing header line")
		}
		if header = strings.Fields(line); len(header) > 0 {
			break
		}
	}
	if len(header) < 2 || len(header) > 3 {
		return nil, apperror.Malformed("line %d: header must be \"n m [fmt]\", got %d fields", lineNo, len(header))
	}

	n, err := parseCount(header[0], "node count", lineNo)
	if err != nil {
		return nil, err
	}
	m, err := parseCount(header[1], "edge count", lineNo)
	if err != nil {
		return nil, err
	}
	format := chacoFormat{}
	if len(header) == 3 {
		if format, err = parseFormat(header[2]); err != nil {
			return nil, err
		}
	}

	// Списки смежности
	lists := make([][]graph.Neighbor, n)
	entries, loops := 0, 0
	for u := 0; u < n; u++ {
		line, ok := next()
		if !ok {
			if err := scanner.Err(); err != nil {
				return nil, apperror.Wrap(err, apperror.CodeMalformedInput, "failed to read adjacency lists")
			}
			return nil, apperror.Malformed("expected %d adjacency lines, got %d", n, u)
		}

		neighbors, err := parseNeighbors(strings.Fields(line), format, n, lineNo)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			if nb.To == u {
				loops++
			} else {
				entries++
			}
		}
		lists[u] = neighbors
	}

	// Хвост: допускаются только пустые строки
	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) != "" {
			return nil, apperror.Malformed("line %d: data after %d adjacency lines", lineNo, n)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeMalformedInput, "failed to read input")
	}

	if entries%2 != 0 || entries/2+loops != m {
		return nil, apperror.Malformed("header declares %d edges, adjacency lists hold %d", m, entries/2+loops).
			WithDetails("entries", entries).
			WithDetails("self_loops", loops)
	}

	return graph.FromWeightedAdjacency(lists)
}

// LoadFile открывает файл и читает его через ReadChaco.
func LoadFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeNotFound, "failed to open graph file").
			WithDetails("path", path)
	}
	defer f.Close()

	return ReadChaco(f)
}

func parseCount(s, what string, lineNo int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, apperror.Malformed("line %d: invalid %s %q", lineNo, what, s)
	}
	return v, nil
}

// parseNeighbors разбирает одну строку смежности; вершины переводятся в 0-based.
func parseNeighbors(fields []string, format chacoFormat, n, lineNo int) ([]graph.Neighbor, error) {
	if format.vertexWeights {
		if len(fields) == 0 {
			return nil, apperror.Malformed("line %d: missing vertex weight", lineNo)
		}
		fields = fields[1:]
	}

	step := 1
	if format.edgeWeights {
		step = 2
		if len(fields)%2 != 0 {
			return nil, apperror.Malformed("line %d: weighted neighbours must come in pairs", lineNo)
		}
	}

	neighbors := make([]graph.Neighbor, 0, len(fields)/step)
	for i := 0; i < len(fields); i += step {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, apperror.Malformed("line %d: invalid neighbour %q", lineNo, fields[i])
		}
		if v < 1 || v > n {
			return nil, apperror.Malformed("line %d: neighbour %d outside [1, %d]", lineNo, v, n)
		}

		w := 1
		if format.edgeWeights {
			if w, err = strconv.Atoi(fields[i+1]); err != nil || w < 0 {
				return nil, apperror.Malformed("line %d: invalid edge weight %q", lineNo, fields[i+1])
			}
		}
		neighbors = append(neighbors, graph.Neighbor{To: v - 1, Weight: w})
	}
	return neighbors, nil
}
