package pdfgeom

import (
	"strconv"
)

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identityMatrix = matrix{1, 0, 0, 1, 0, 0}

// apply maps a point through the matrix (row-vector convention).
func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// concat returns the matrix that applies first, then second.
func concat(first, second matrix) matrix {
	return matrix{
		first[0]*second[0] + first[1]*second[2],
		first[0]*second[1] + first[1]*second[3],
		first[2]*second[0] + first[3]*second[2],
		first[2]*second[1] + first[3]*second[3],
		first[4]*second[0] + first[5]*second[2] + second[4],
		first[4]*second[1] + first[5]*second[3] + second[5],
	}
}

// scanPageStrokes interprets the path operators of a decoded content stream
// and returns the painted line segments and rectangles in device space. Text
// and color operators are skipped; the CTM (q/Q/cm) is tracked so that
// translated or scaled strokes land at their painted positions.
func scanPageStrokes(data []byte) ([]strokeSeg, []strokeRect) {
	var (
		segs  []strokeSeg
		rects []strokeRect

		pendingSegs  []strokeSeg
		pendingRects []strokeRect

		stack   []float64
		ctm     = identityMatrix
		ctmSave []matrix

		curX, curY float64
		hasCur     bool
	)

	popFloats := func(n int) ([]float64, bool) {
		if len(stack) < n {
			return nil, false
		}
		vals := stack[len(stack)-n:]
		return vals, true
	}
	endPath := func(paint bool) {
		if paint {
			segs = append(segs, pendingSegs...)
			rects = append(rects, pendingRects...)
		}
		pendingSegs = nil
		pendingRects = nil
		hasCur = false
	}

	sc := contentScanner{data: data}
	for {
		tok, isNumber, ok := sc.next()
		if !ok {
			break
		}
		if isNumber {
			v, err := strconv.ParseFloat(tok, 64)
			if err == nil {
				stack = append(stack, v)
			}
			continue
		}

		switch tok {
		case "q":
			ctmSave = append(ctmSave, ctm)
		case "Q":
			if n := len(ctmSave); n > 0 {
				ctm = ctmSave[n-1]
				ctmSave = ctmSave[:n-1]
			}
		case "cm":
			if v, ok := popFloats(6); ok {
				ctm = concat(matrix{v[0], v[1], v[2], v[3], v[4], v[5]}, ctm)
			}
		case "m":
			if v, ok := popFloats(2); ok {
				curX, curY = ctm.apply(v[0], v[1])
				hasCur = true
			}
		case "l":
			if v, ok := popFloats(2); ok && hasCur {
				x, y := ctm.apply(v[0], v[1])
				pendingSegs = append(pendingSegs, strokeSeg{curX, curY, x, y})
				curX, curY = x, y
			}
		case "c":
			if v, ok := popFloats(6); ok && hasCur {
				curX, curY = ctm.apply(v[4], v[5])
			}
		case "v", "y":
			if v, ok := popFloats(4); ok && hasCur {
				curX, curY = ctm.apply(v[2], v[3])
			}
		case "re":
			if v, ok := popFloats(4); ok {
				x0, y0 := ctm.apply(v[0], v[1])
				x1, y1 := ctm.apply(v[0]+v[2], v[1]+v[3])
				if x0 > x1 {
					x0, x1 = x1, x0
				}
				if y0 > y1 {
					y0, y1 = y1, y0
				}
				pendingRects = append(pendingRects, strokeRect{x0, y0, x1 - x0, y1 - y0})
			}
		case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*":
			endPath(true)
		case "n":
			endPath(false)
		case "BI":
			sc.skipInlineImage()
		}
		stack = stack[:0]
	}

	return segs, rects
}

// contentScanner yields the numbers and operator keywords of a content
// stream, skipping strings, names, comments and structural delimiters.
type contentScanner struct {
	data []byte
	pos  int
}

func isWhite(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// next returns the following token and whether it is numeric. ok is false at
// end of stream. Non-operand constructs are consumed and reported as empty
// operator tokens so the interpreter clears its stack on them.
func (s *contentScanner) next() (tok string, isNumber, ok bool) {
	for s.pos < len(s.data) && isWhite(s.data[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.data) {
		return "", false, false
	}

	b := s.data[s.pos]
	switch {
	case b == '%':
		for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
			s.pos++
		}
		return "", false, true
	case b == '(':
		s.skipString()
		return "", false, true
	case b == '<':
		s.skipAngle()
		return "", false, true
	case b == '/':
		s.pos++
		for s.pos < len(s.data) && !isWhite(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
			s.pos++
		}
		return "", false, true
	case isDelim(b):
		s.pos++
		return "", false, true
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		start := s.pos
		s.pos++
		for s.pos < len(s.data) {
			c := s.data[s.pos]
			if c == '.' || c == '-' || (c >= '0' && c <= '9') {
				s.pos++
				continue
			}
			break
		}
		return string(s.data[start:s.pos]), true, true
	default:
		start := s.pos
		for s.pos < len(s.data) && !isWhite(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
			s.pos++
		}
		return string(s.data[start:s.pos]), false, true
	}
}

// skipString consumes a literal string, honoring nesting and escapes.
func (s *contentScanner) skipString() {
	depth := 0
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '\\':
			s.pos++ // skip the escaped byte
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				s.pos++
				return
			}
		}
		s.pos++
	}
}

// skipAngle consumes a hex string or a dictionary opener.
func (s *contentScanner) skipAngle() {
	if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
		s.pos += 2 // "<<" dictionary delimiter; contents tokenize normally
		return
	}
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		s.pos++
	}
	if s.pos < len(s.data) {
		s.pos++
	}
}

// skipInlineImage consumes everything through the EI marker of a BI...EI
// inline image, whose binary payload would otherwise derail tokenization.
func (s *contentScanner) skipInlineImage() {
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' &&
			(s.pos == 0 || isWhite(s.data[s.pos-1])) &&
			(s.pos+2 >= len(s.data) || isWhite(s.data[s.pos+2])) {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}
