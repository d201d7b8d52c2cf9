/*
 * dtf.go, part of gorder
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package dtf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	order "github.com/rmera/gorder"
	"gonum.org/v1/gonum/mat"
)

const (
	lzwLitwidth int = 8
	defaultPrec int = 4
)

//Write!
type DtfW struct {
	f         *os.File
	h         io.WriteCloser
	nmols     int
	filename  string
	writeable bool
	prec      int
}

func (D *DtfW) Close() {
	if D == nil {
		return
	}
	if D.writeable {
		D.h.Close()
		D.f.Close()
	}
	D.writeable = false
	return
}

//Len returns the number of directors written per frame.
func (D *DtfW) Len() int {
	return D.nmols
}

//WNext writes the next frame: one director per row of v, plus, if given,
//the simulation time of the frame.
func (D *DtfW) WNext(v *mat.Dense, time ...float64) error {
	if !D.writeable {
		return Error{TrajUnIniWrite, D.filename, []string{"WNext"}, true}
	}
	if v == nil {
		return Error{NilDirectors, D.filename, []string{"WNext"}, true}
	}
	r, c := v.Dims()
	if c != 3 || r != D.nmols {
		return Error{fmt.Sprintf("%dx%d directors given, but %dx3 expected", r, c, D.nmols), D.filename, []string{"WNext"}, true}
	}
	var floats [3]float64
	for i := 0; i < r; i++ {
		floats[0] = v.At(i, 0)
		floats[1] = v.At(i, 1)
		floats[2] = v.At(i, 2)
		D.h.Write([]byte(dirsEncode(floats, D.prec)))
	}
	if len(time) > 0 {
		D.h.Write([]byte(fmt.Sprintf("* %g\n", time[0])))
	} else {
		D.h.Write([]byte("*\n"))
	}
	return nil
}

//NewWriter opens a DTF file for writing frames of nmols directors each.
//Only the first given header map is written. The compression level, if
//given, is used for the gzip/DEFLATE compressors; zstd uses its best
//compression setting regardless.
func NewWriter(name string, nmols int, header map[string]string, compressionLevel ...int) (*DtfW, error) {
	var level int = 9
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	D := new(DtfW)
	var err error
	D.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	zwriter := func(a io.Writer) (io.WriteCloser, error) {
		r, err := flate.NewWriter(a, level)
		return r, err
	}
	gzipwriter := func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	var AnyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewWriter = gzipwriter
	case 'r':
		AnyNewWriter = zwriter
	default:
		AnyNewWriter = zstdwriter
	}
	D.h, err = AnyNewWriter(D.f)
	if err != nil {
		return nil, Error{"Can't open compressor: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	D.nmols = nmols
	D.filename = name
	D.writeable = true
	D.prec = defaultPrec
	if header != nil {
		if p, ok := header["prec"]; ok {
			prec, err := strconv.Atoi(p)
			if err == nil && prec > 0 {
				D.prec = prec
			} else {
				log.Printf("Invalid precision for trajectory %s. Will use the default", D.filename)
			}
		}
		for k, v := range header {
			D.h.Write([]byte(fmt.Sprintf("%s=%v\n", k, v)))
		}
	}
	if header == nil || header["prec"] == "" {
		D.h.Write([]byte(fmt.Sprintf("prec=%d\n", D.prec)))
	}
	D.h.Write([]byte(fmt.Sprintf("** %d\n", D.nmols)))
	return D, nil
}

//Read!
type DtfR struct {
	f            *os.File
	z            io.ReadCloser
	h            *bufio.Reader
	intermediate *bufio.Reader
	nmols        int
	filename     string
	prec         int
	read         int //frames read so far
	readable     bool
}

//*zstd.Decoder doesn't implement io.ReadCloser (Close returns nothing),
//so it gets a little wrapper.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (z zstdql) Close() error {
	z.closeql()
	return nil
}

func dirsEncode(f [3]float64, prec int) string {
	p := math.Pow(10.0, float64(prec))
	var temp [3]int
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

func dirsDecode(str string, temp *[3]float64, prec int) error {
	p := math.Pow(10.0, float64(prec))
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("ill-formed director line in dtf, 3 fields expected: %s", str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse director component %d (%s): %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

//New opens a DTF director trajectory for reading, and returns a pointer to
//the handle, a map with the header metadata (or nil, if the header carries
//none) and error or nil.
func New(name string) (*DtfR, map[string]string, error) {
	D := new(DtfR)
	D.nmols = -1 //just so we know if things don't work
	D.prec = defaultPrec
	var m map[string]string
	var err error
	D.filename = name
	D.f, err = os.Open(D.filename)
	if err != nil {
		return nil, nil, err
	}
	zreader := func(a io.Reader) (io.ReadCloser, error) {
		return flate.NewReader(a), nil
	}
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return &zstdql{r.Close, r}, nil
	}
	gzreader := func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewReader = gzreader
	case 'r':
		AnyNewReader = zreader
	default:
		AnyNewReader = zstdreader
	}
	D.intermediate = bufio.NewReader(D.f)
	D.z, err = AnyNewReader(D.intermediate)
	if err != nil {
		return nil, nil, Error{"Can't open decompressor: " + err.Error(), D.filename, []string{"New"}, true}
	}
	D.h = bufio.NewReader(D.z)
	for {
		str, err := D.h.ReadString('\n')
		if err != nil {
			return nil, nil, Error{"Can't read header: " + err.Error(), D.filename, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				return nil, nil, Error{fmt.Sprintf("Can't read molecule number from '%s'", str), D.filename, []string{"New"}, true}
			}
			D.nmols, err = strconv.Atoi(nat[1])
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("Can't read molecule number from '%s': %s", nat[1], err.Error()), D.filename, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, nil, Error{fmt.Sprintf("Malformed header line '%s'", str), D.filename, []string{"New"}, true}
		}
		if m == nil {
			m = map[string]string{}
		}
		m[kv[0]] = kv[1]
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			D.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will assume the default", D.filename)
		}
	}
	D.readable = true
	return D, m, nil
}

//Readable returns true if the handle is readable (if it is possible to
//call Next on it).
func (D *DtfR) Readable() bool {
	return D.readable
}

//Next puts in the given matrix the directors for the next frame of the
//trajectory and, if the optional time slice is given, the frame's
//simulation time in time[0][0]. A frame that carries no time gets its own
//index in the trajectory in place of a time, so time series stay usable.
//If the matrix is nil, the frame is read, checked and discarded. If the
//returned error is a LastFrameError, the trajectory simply ended.
func (D *DtfR) Next(v *mat.Dense, time ...[]float64) error {
	if !D.readable {
		return Error{TrajUnIniRead, D.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < D.nmols; i++ {
		b, err := D.h.ReadBytes('\n')
		if err != nil {
			//EOF between frames just means the trajectory ended.
			if err == io.EOF && i == 0 {
				D.Close()
				return newlastFrameError(D.filename, "Next")
			}
			return Error{message: err.Error(), filename: D.filename, critical: true}
		}
		if err := dirsDecode(string(b[:len(b)-1]), &temp, D.prec); err != nil {
			return Error{message: err.Error(), filename: D.filename, critical: true}
		}
		if v == nil {
			continue //we ignore the frame, but still check it for correctness.
		}
		for j, val := range temp {
			v.Set(i, j, val)
		}
	}
	s, err := D.h.ReadString('\n')
	if err != nil {
		return Error{"Can't read the frame termination mark: " + err.Error(), D.filename, []string{"Next"}, true}
	}
	if s[0] != '*' {
		return Error{"Wrong number of directors in frame", D.filename, []string{"Next"}, true}
	}
	if len(time) > 0 && len(time[0]) >= 1 {
		time[0][0] = float64(D.read) //the fallback for frames without a time
		fields := strings.Fields(strings.TrimSpace(s))
		if len(fields) >= 2 {
			t, errt := strconv.ParseFloat(fields[1], 64)
			if errt != nil {
				log.Printf("Failed to read the time of a frame from %s", D.filename) //just a head-up
			} else {
				time[0][0] = t
			}
		}
	}
	D.read++
	return nil
}

//Close closes the object, marking it as unreadable.
func (D *DtfR) Close() {
	if !D.readable {
		return
	}
	D.z.Close()
	D.f.Close()
	D.readable = false
	return
}

//Len returns the number of directors in each frame of the trajectory.
func (D *DtfR) Len() int {
	return D.nmols
}

//NextConc reads as many frames as elements the given slice has, returning
//a slice of channels, each of which will transmit one of the frames read,
//in order, plus the simulation times of those frames. If the trajectory
//ends mid-request, the channels and times for the frames that were read
//are returned together with the LastFrameError, so no frame is lost.
func (D *DtfR) NextConc(frames []*mat.Dense) ([]chan *mat.Dense, []float64, error) {
	if !D.Readable() {
		return nil, nil, Error{TrajUnIniRead, D.filename, []string{"NextConc"}, true}
	}
	framechans := make([]chan *mat.Dense, 0, len(frames))
	times := make([]float64, 0, len(frames))
	t := []float64{0}
	for _, v := range frames {
		if err := D.Next(v, t); err != nil {
			if _, ok := err.(order.LastFrameError); ok {
				return framechans, times, errDecorate(err, "NextConc")
			}
			return nil, nil, errDecorate(err, "NextConc")
		}
		c := make(chan *mat.Dense)
		framechans = append(framechans, c)
		times = append(times, t[0])
		go func(keep *mat.Dense, pipe chan *mat.Dense) {
			pipe <- keep
		}(v, c)
	}
	return framechans, times, nil
}

//Errors

//errDecorate is a helper function that asserts that the error implements
//order.Error and decorates the error with the caller's name before
//returning it. If used with a non order.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(order.Error)
	err2.Decorate(caller)
	return err2
}

//Error is the general structure for DTF trajectory errors. It fulfills
//order.Error and order.TrajError.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("dtf file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file associated to the error
func (err Error) Format() string { return "dtf" }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilDirectors   = "Given nil directors"
)

//lastFrameError implements order.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//lastFrameError does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "dtf" }

func (E lastFrameError) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
