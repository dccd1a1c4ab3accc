package gotimer_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"

	"github.com/ghettovoice/gotimer"
	"github.com/ghettovoice/gotimer/log"
)

var _ = Describe("Service", func() {
	var goroutines []Goroutine

	BeforeEach(func() {
		goroutines = Goroutines()
	})

	AfterEach(func() {
		Eventually(Goroutines).WithTimeout(3 * time.Second).
			ShouldNot(HaveLeaked(goroutines))
	})

	It("hands fired tasks to a queue dispatcher in deadline order", func() {
		q := gotimer.NewQueue(&gotimer.QueueOptions{Logger: log.Noop()})
		defer q.Close()

		svc := gotimer.NewService(&gotimer.ServiceOptions{
			Dispatcher: q,
			Logger:     log.Noop(),
		})
		Expect(svc.Start()).To(Succeed())
		defer svc.Close()

		fired := make(chan string, 3)
		add := func(name string, d time.Duration) {
			_, err := svc.SetTimeout(d, func(arg any) {
				fired <- arg.(string) //nolint:forcetypeassert
			}, name)
			Expect(err).NotTo(HaveOccurred())
		}
		add("slow", 50*time.Millisecond)
		add("fast", 10*time.Millisecond)
		add("medium", 30*time.Millisecond)

		Eventually(fired).WithTimeout(time.Second).Should(Receive(Equal("fast")))
		Eventually(fired).WithTimeout(time.Second).Should(Receive(Equal("medium")))
		Eventually(fired).WithTimeout(time.Second).Should(Receive(Equal("slow")))
	})

	It("repeats interval timers until freed", func() {
		svc := gotimer.NewService(&gotimer.ServiceOptions{Logger: log.Noop()})
		Expect(svc.Start()).To(Succeed())
		defer svc.Close()

		fired := make(chan struct{}, 16)
		id, err := svc.SetInterval(10*time.Millisecond, func(any) {
			fired <- struct{}{}
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		for range 3 {
			Eventually(fired).WithTimeout(time.Second).Should(Receive())
		}
		Expect(svc.Free(id)).To(Succeed())
		Eventually(func() int { return svc.Pending() }).Should(BeZero())
	})

	It("drops every pending timer on close without firing", func() {
		svc := gotimer.NewService(&gotimer.ServiceOptions{Logger: log.Noop()})
		Expect(svc.Start()).To(Succeed())

		for range 10 {
			_, err := svc.SetTimeout(time.Hour, func(any) {
				Fail("pending timer fired during close")
			}, nil)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(svc.Pending()).To(Equal(10))

		Expect(svc.Close()).To(Succeed())
		Expect(svc.Pending()).To(BeZero())
	})
})

var _ = Describe("Default service", func() {
	It("serves the package level operations", func() {
		Expect(gotimer.Init(&gotimer.ServiceOptions{Logger: log.Noop()})).To(Succeed())
		defer gotimer.Shutdown() //nolint:errcheck

		Expect(gotimer.DefaultService()).NotTo(BeNil())

		fired := make(chan struct{}, 1)
		id, err := gotimer.SetTimeout(10*time.Millisecond, func(any) {
			fired <- struct{}{}
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(BeNumerically(">", 0))
		Eventually(fired).WithTimeout(time.Second).Should(Receive())

		id, err = gotimer.SetInterval(10*time.Millisecond, func(any) {}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotimer.Pause(id)).To(Succeed())
		Expect(gotimer.Continue(id)).To(Succeed())
		Expect(gotimer.Reset(id, 20*time.Millisecond)).To(Succeed())
		Expect(gotimer.Free(id)).To(Succeed())

		Expect(gotimer.Shutdown()).To(Succeed())
		Expect(gotimer.DefaultService()).To(BeNil())

		_, err = gotimer.SetTimeout(time.Millisecond, func(any) {}, nil)
		Expect(err).To(MatchError(gotimer.ErrNotRunning))
		Expect(gotimer.Shutdown()).To(MatchError(gotimer.ErrNotRunning))
	})

	It("rejects double initialization", func() {
		Expect(gotimer.Init(&gotimer.ServiceOptions{Logger: log.Noop()})).To(Succeed())
		defer gotimer.Shutdown() //nolint:errcheck

		Expect(gotimer.Init(nil)).To(MatchError(gotimer.ErrInvalidArgument))
	})
})
