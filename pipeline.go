/*
 * pipeline.go, part of gorder
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

package order

import (
	"fmt"
	"log"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

// The default gap between the two largest eigenvalues of Q under which a
// frame's director is flagged as not well-defined.
const DefaultDegeneracyGap = 1e-10

type Options struct {
	cpus     int
	gap      float64
	failfast bool
	skip     int
}

//Returns an Options with the default options.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.cpus = runtime.NumCPU()
	ret.gap = DefaultDegeneracyGap
	ret.failfast = false
	ret.skip = 1
	return ret
}

//Returns the current value of the Cpus option (the number of goroutines
//used in the concurrent calculations) and sets it, if a valid value is
//given.
func (r *Options) Cpus(cpus ...int) int {
	ret := r.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		r.cpus = cpus[0]
	}
	return ret
}

//Returns the eigenvalue gap under which a frame is flagged as degenerate
//and sets it, if a valid value is given.
func (r *Options) DegeneracyGap(gap ...float64) float64 {
	ret := r.gap
	if len(gap) > 0 && gap[0] >= 0 {
		r.gap = gap[0]
	}
	return ret
}

//Returns whether a per-frame numerical failure aborts the whole batch
//(default is to skip the frame and keep going) and sets the value to the
//one given, if any.
func (r *Options) FailFast(failfast ...bool) bool {
	ret := r.failfast
	if len(failfast) > 0 {
		r.failfast = failfast[0]
	}
	return ret
}

//Returns how many frames are read per frame processed, in the trajectory
//functions (1 processes every frame) and sets it, if a valid value is
//given.
func (r *Options) Skip(skip ...int) int {
	ret := r.skip
	if len(skip) > 0 && skip[0] > 0 {
		r.skip = skip[0]
	}
	return ret
}

type frameOut struct {
	res *Result
	err error
}

//The worker function for one frame.
func unitFrame(v *mat.Dense, o *Options, out chan frameOut) {
	r, err := Frame(v, o)
	out <- frameOut{r, err}
}

//collect takes one worker's output and files it into the series under the
//given frame index and time, skipping or aborting on error according to
//the options.
func (S *Series) collect(out frameOut, frame int, time float64, o *Options) error {
	if out.res == nil && out.err == nil { //a worker that got no frame
		return nil
	}
	if out.err != nil {
		if fe, ok := out.err.(FrameError); ok {
			fe.setFrame(frame)
		}
		if o.failfast {
			return out.err
		}
		log.Printf("frame %d skipped: %s", frame, out.err.Error()) //just a head-up, the skip is also in the Series
		S.Skipped = append(S.Skipped, Skipped{Frame: frame, Reason: out.err})
		return nil
	}
	out.res.Frame = frame
	out.res.Time = time
	S.Data = append(S.Data, out.res)
	return nil
}

// Batch computes the order parameters for a whole in-memory trajectory:
// one N×3 raw director matrix per frame, plus a parallel slice of
// simulation times (which may be nil, in which case frame indices are used
// as times). All frames must have the same number of molecules; that is
// checked before any computation starts, and a violation aborts the batch
// with a ShapeMismatchError. Frames are processed concurrently, up to
// Options.Cpus at a time, each worker owning its frame exclusively; the
// director matrices are normalized in place. Results come back in frame
// order regardless of completion order. Unless FailFast is set, a frame
// whose computation fails is reported in the returned Series.Skipped and
// the remaining frames are still processed.
func Batch(frames []*mat.Dense, times []float64, options ...*Options) (*Series, error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if len(frames) == 0 {
		return nil, errDecorate(&EmptyTrajectoryError{}, "Batch")
	}
	if times != nil && len(times) != len(frames) {
		return nil, fmt.Errorf("Batch: %d frames but %d times given", len(frames), len(times))
	}
	want, _ := frames[0].Dims()
	for i, f := range frames {
		r, c := f.Dims()
		if c != 3 || r != want {
			return nil, errDecorate(&ShapeMismatchError{frame: i, rows: r, cols: c, wantrows: want}, "Batch")
		}
	}
	S := &Series{Data: make([]*Result, 0, len(frames))}
	outs := make([]chan frameOut, o.cpus)
	for i := range outs {
		outs[i] = make(chan frameOut)
	}
	for start := 0; start < len(frames); start += o.cpus {
		end := min(start+o.cpus, len(frames))
		for j := start; j < end; j++ {
			go unitFrame(frames[j], o, outs[j-start])
		}
		//The output channels are sorted by frame, so iterating over them in
		//order reassembles the results in frame order, whatever the order in
		//which the workers finish.
		for j := start; j < end; j++ {
			t := float64(j)
			if times != nil {
				t = times[j]
			}
			if err := S.collect(<-outs[j-start], j, t, o); err != nil {
				return nil, errDecorate(err, "Batch")
			}
		}
	}
	return S, nil
}

// Trajectory computes the order parameters for a director source, reading
// it sequentially, one frame at a time. Frames where the computation fails
// are skipped and reported in the returned Series, unless FailFast is set.
// With Options.Skip = n, only every nth frame is processed (the others are
// still read, and still count for the frame indices in the results).
func Trajectory(traj DirectorTraj, options ...*Options) (*Series, error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if traj.Len() <= 0 {
		return nil, errDecorate(&EmptyTrajectoryError{}, "Trajectory")
	}
	v := mat.NewDense(traj.Len(), 3, nil)
	t := []float64{0}
	S := new(Series)
	read := 0
	var err error
reading:
	for i := 0; ; i++ {
		if i%o.skip != 0 {
			err = traj.Next(nil)
		} else {
			err = traj.Next(v, t)
		}
		if err != nil {
			switch err := err.(type) {
			case LastFrameError:
				break reading
			case Error:
				err.Decorate(fmt.Sprintf("Trajectory: failed while reading the %d th frame", i))
				return nil, err
			default:
				return nil, err
			}
		}
		if i%o.skip != 0 {
			continue
		}
		r, err := Frame(v, o)
		if err = S.collect(frameOut{r, err}, i, t[0], o); err != nil {
			return nil, errDecorate(err, "Trajectory")
		}
		read++
	}
	if read == 0 {
		return nil, errDecorate(&EmptyTrajectoryError{}, "Trajectory")
	}
	return S, nil
}

//The worker function for the concurrent trajectory processing.
func unitConcFrame(channelin chan *mat.Dense, channelout chan frameOut, o *Options) {
	if channelin == nil {
		channelout <- frameOut{nil, nil}
		return
	}
	v := <-channelin
	r, err := Frame(v, o)
	channelout <- frameOut{r, err}
}

// ConcTrajectory is the concurrent version of Trajectory. It reads frames
// from the source in chunks of Options.Cpus and hands each frame to its
// own worker goroutine, reassembling the results in frame order. Each
// worker owns its frame's buffer exclusively while it computes; no state
// is shared between workers. With Options.Skip = n, only every nth frame
// is processed; the others are still read and drained, and still count
// for the frame indices in the results, as in Trajectory.
func ConcTrajectory(traj ConcDirectorTraj, options ...*Options) (*Series, error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if traj.Len() <= 0 {
		return nil, errDecorate(&EmptyTrajectoryError{}, "ConcTrajectory")
	}
	frames := make([]*mat.Dense, o.cpus)
	for i := range frames {
		frames[i] = mat.NewDense(traj.Len(), 3, nil)
	}
	results := make([]chan frameOut, len(frames))
	for i := range results {
		results[i] = make(chan frameOut)
	}
	S := new(Series)
	fr := 0       //frames read from the source
	computed := 0 //frames handed to a worker
	for {
		coordchans, times, err := traj.NextConc(frames)
		var last bool
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				last = true //we still process whatever frames we did get.
			} else {
				if Err, ok := err.(Error); ok {
					Err.Decorate(fmt.Sprintf("ConcTrajectory: failed when reading the %d th frame", fr))
					return nil, Err
				}
				return nil, err
			}
		}
		for key, channel := range coordchans {
			if (fr+key)%o.skip != 0 {
				if channel != nil {
					<-channel //the frame was read, we just drop it
				}
				continue
			}
			go unitConcFrame(channel, results[key], o)
		}
		//The results channels are sorted by frame, so iterating over them in
		//order gives the results in frame order, whatever order the workers
		//finish in.
		for key := range coordchans {
			if (fr+key)%o.skip != 0 {
				continue
			}
			t := float64(fr + key)
			if times != nil {
				t = times[key]
			}
			if err := S.collect(<-results[key], fr+key, t, o); err != nil {
				return nil, errDecorate(err, "ConcTrajectory")
			}
			computed++
		}
		fr += len(coordchans)
		if last {
			break
		}
	}
	if computed == 0 {
		return nil, errDecorate(&EmptyTrajectoryError{}, "ConcTrajectory")
	}
	return S, nil
}
