/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package timer_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ise/timer"
)

var _ = Describe("Queue", func() {
	var q *timer.Queue

	BeforeEach(func() {
		q = timer.New(nil)
	})

	It("fires timers in expiration order", func() {
		var order []int
		base := time.Now()

		q.Add(base.Add(30*time.Millisecond), 0, func() { order = append(order, 3) })
		q.Add(base.Add(10*time.Millisecond), 0, func() { order = append(order, 1) })
		q.Add(base.Add(20*time.Millisecond), 0, func() { order = append(order, 2) })

		q.ProcessExpired(base.Add(100 * time.Millisecond))

		Expect(order).To(Equal([]int{1, 2, 3}))
	})

	It("breaks expiration ties by identifier", func() {
		var order []int
		at := time.Now().Add(10 * time.Millisecond)

		idA := q.Add(at, 0, func() { order = append(order, 1) })
		q.Add(at, 0, func() { order = append(order, 2) })

		Expect(idA).ToNot(BeZero())
		q.ProcessExpired(at)

		Expect(order).To(Equal([]int{1, 2}))
	})

	It("re-inserts a repeating timer after its callback returns", func() {
		count := 0
		now := time.Now()
		q.Add(now, 5*time.Millisecond, func() { count++ })

		q.ProcessExpired(now)
		Expect(count).To(Equal(1))
		Expect(q.Len()).To(Equal(1))

		next, ok := q.NextExpiration()
		Expect(ok).To(BeTrue())
		Expect(next.After(now)).To(BeTrue())
	})

	It("fires a 1s repeating timer ten times then stops after cancel", func() {
		count := 0
		now := time.Now()
		var id timer.ID
		id = q.Add(now, time.Second, func() {
			count++
			if count == 10 {
				_ = q.Cancel(id)
			}
		})

		cur := now
		for i := 0; i < 15 && q.Len() > 0; i++ {
			cur = cur.Add(time.Second)
			q.ProcessExpired(cur)
		}

		Expect(count).To(Equal(10))
		Expect(q.Len()).To(Equal(0))
	})

	It("allows self-cancel during callback without a further invocation", func() {
		count := 0
		now := time.Now()
		var id timer.ID
		id = q.Add(now, time.Millisecond, func() {
			count++
			Expect(q.Cancel(id)).To(BeNil())
		})

		q.ProcessExpired(now)
		Expect(count).To(Equal(1))
		Expect(q.Len()).To(Equal(0))
	})

	It("allows a sibling callback to cancel a repeating timer that fired earlier in the same batch", func() {
		siblingFired := false
		now := time.Now()

		var victim timer.ID
		victim = q.Add(now, time.Millisecond, func() {})
		q.Add(now, time.Millisecond, func() {
			siblingFired = true
			_ = q.Cancel(victim)
		})

		q.ProcessExpired(now)

		Expect(siblingFired).To(BeTrue())
		// the victim was re-inserted and then removed; only the repeating
		// sibling itself remains scheduled
		Expect(q.Len()).To(Equal(1))
	})

	It("returns ErrorTimerNotFound for an already fired one-shot timer", func() {
		now := time.Now()
		id := q.Add(now, 0, func() {})

		q.ProcessExpired(now)

		Expect(q.Cancel(id)).ToNot(BeNil())
	})

	It("does not let a panicking callback skip subsequent expired timers", func() {
		secondFired := false
		now := time.Now()

		q.Add(now, 0, func() { panic("boom") })
		q.Add(now, 0, func() { secondFired = true })

		Expect(func() { q.ProcessExpired(now) }).ToNot(Panic())
		Expect(secondFired).To(BeTrue())
	})

	It("computes NextTimeout clamped between zero and the cap", func() {
		now := time.Now()
		Expect(q.NextTimeout(now, time.Second)).To(Equal(time.Second))

		q.Add(now.Add(-time.Millisecond), 0, func() {})
		Expect(q.NextTimeout(now, time.Second)).To(Equal(time.Duration(0)))
	})
})
