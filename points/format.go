package points

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	CoefficientsFileName = "coeffs.json"
	SizesFileName        = "sizes.txt"
)

// ListFileName is the name of the file holding a list of the given size.
func ListFileName(size int) string { return fmt.Sprintf("points_%d.txt", size) }

// WriteCoefficients writes the JSON description of the function.
func WriteCoefficients(w io.Writer, fn Function) error {
	out, err := json.Marshal(fn)
	if err != nil {
		return errors.Wrap(err, "encoding coefficients")
	}

	_, err = w.Write(out)
	return errors.Wrap(err, "writing coefficients")
}

func WriteSizes(w io.Writer, sizes []int) error {
	buf := bufio.NewWriter(w)
	for _, size := range sizes {
		if _, err := fmt.Fprintln(buf, size); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(buf.Flush())
}

func ReadSizes(r io.Reader) ([]int, error) {
	sizes := []int{}
	err := scanLines(r, func(num int, line string) error {
		size, err := strconv.Atoi(line)
		if err != nil {
			return errors.Wrapf(err, "line %d: invalid size", num)
		}
		sizes = append(sizes, size)
		return nil
	})

	return sizes, err
}

// ReadPoints parses a point list written by Generator.WriteTo.
func ReadPoints(r io.Reader) ([]Point, error) {
	pts := []Point{}
	err := scanLines(r, func(num int, line string) error {
		p, err := parsePoint(line)
		if err != nil {
			return errors.Wrapf(err, "line %d", num)
		}
		pts = append(pts, p)
		return nil
	})

	return pts, err
}

func parsePoint(line string) (Point, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return Point{}, errors.Errorf("expected 2 fields, found %d", len(parts))
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, errors.Wrap(err, "invalid x value")
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, errors.Wrap(err, "invalid y value")
	}

	return Point{X: x, Y: y}, nil
}

func scanLines(r io.Reader, fn func(int, string) error) error {
	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(num, line); err != nil {
			return err
		}
	}

	return errors.Wrap(scanner.Err(), "reading input")
}
