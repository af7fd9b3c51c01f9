package checker_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/api-smoke/internal/checker"
	"github.com/angeloszaimis/api-smoke/internal/endpoint"
)

func TestChecker(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Checker Suite")
}

var _ = Describe("JoinURL", func() {
	DescribeTable("joins base and path with exactly one slash",
		func(base, path, expected string) {
			Expect(checker.JoinURL(base, path)).To(Equal(expected))
		},
		Entry("trailing and leading slash", "https://x/", "/y", "https://x/y"),
		Entry("no slashes", "https://x", "y", "https://x/y"),
		Entry("trailing slash only", "https://x/", "y", "https://x/y"),
		Entry("leading slash only", "https://x", "/y", "https://x/y"),
		Entry("deep path", "https://api.example.com/stage/", "/v1/health", "https://api.example.com/stage/v1/health"),
		Entry("empty path", "https://x/", "", "https://x"),
	)
})

var _ = Describe("Checker", func() {
	var (
		calls  int64
		sleeps []time.Duration
	)

	newChecker := func(opts checker.Options) *checker.Checker {
		opts.Sleep = func(d time.Duration) {
			sleeps = append(sleeps, d)
		}
		chk, err := checker.New(opts)
		Expect(err).NotTo(HaveOccurred())
		return chk
	}

	BeforeEach(func() {
		atomic.StoreInt64(&calls, 0)
		sleeps = nil
	})

	Describe("New", func() {
		It("should reject an empty base URL", func() {
			_, err := checker.New(checker.Options{BaseURL: ""})
			Expect(err).To(HaveOccurred())
			Expect(checker.IsConfigError(err)).To(BeTrue())
		})

		It("should reject a blank base URL", func() {
			_, err := checker.New(checker.Options{BaseURL: "   "})
			Expect(err).To(HaveOccurred())
			Expect(checker.IsConfigError(err)).To(BeTrue())
		})

		It("should accept a plain base URL", func() {
			chk, err := checker.New(checker.Options{BaseURL: "https://api.example.com"})
			Expect(err).NotTo(HaveOccurred())
			Expect(chk).NotTo(BeNil())
		})
	})

	Describe("Check", func() {
		Context("when auth is required and no token is supplied", func() {
			It("should skip without making any network call", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					atomic.AddInt64(&calls, 1)
				}))
				defer server.Close()

				chk := newChecker(checker.Options{BaseURL: server.URL})

				ep := endpoint.New("/v1/items")
				ep.RequiresAuth = true
				res := chk.Check(ep)

				Expect(res.Skipped).To(BeTrue())
				Expect(res.OK).To(BeFalse())
				Expect(res.StatusCode).To(BeZero())
				Expect(res.Attempts).To(BeZero())
				Expect(res.Message).To(ContainSubstring("no token"))
				Expect(atomic.LoadInt64(&calls)).To(BeZero())
				Expect(sleeps).To(BeEmpty())
			})
		})

		Context("when the first attempt succeeds", func() {
			It("should pass with exactly one call and no sleep", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					atomic.AddInt64(&calls, 1)
					w.WriteHeader(http.StatusOK)
					w.Write([]byte(`{"status":"ok"}`))
				}))
				defer server.Close()

				chk := newChecker(checker.Options{BaseURL: server.URL})
				res := chk.Check(endpoint.New("/health"))

				Expect(res.OK).To(BeTrue())
				Expect(res.Skipped).To(BeFalse())
				Expect(res.StatusCode).To(Equal(200))
				Expect(res.Attempts).To(Equal(1))
				Expect(res.Message).To(ContainSubstring("status 200"))
				Expect(atomic.LoadInt64(&calls)).To(Equal(int64(1)))
				Expect(sleeps).To(BeEmpty())
			})
		})

		Context("when the status never matches", func() {
			It("should exhaust retries with growing delays", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					atomic.AddInt64(&calls, 1)
					w.WriteHeader(http.StatusServiceUnavailable)
					w.Write([]byte("down for maintenance"))
				}))
				defer server.Close()

				chk := newChecker(checker.Options{
					BaseURL:      server.URL,
					Retries:      3,
					Backoff:      2.0,
					InitialDelay: time.Second,
				})
				res := chk.Check(endpoint.New("/health"))

				Expect(res.OK).To(BeFalse())
				Expect(res.Skipped).To(BeFalse())
				Expect(res.StatusCode).To(Equal(503))
				Expect(res.Attempts).To(Equal(3))
				Expect(res.Message).To(ContainSubstring("503"))
				Expect(res.Message).To(ContainSubstring("body preview"))
				Expect(atomic.LoadInt64(&calls)).To(Equal(int64(3)))
				Expect(sleeps).To(Equal([]time.Duration{time.Second, 2 * time.Second}))
			})
		})

		Context("when the endpoint recovers mid-sequence", func() {
			It("should retry wrong statuses until success", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					n := atomic.AddInt64(&calls, 1)
					if n < 3 {
						w.WriteHeader(http.StatusServiceUnavailable)
						return
					}
					w.WriteHeader(http.StatusOK)
				}))
				defer server.Close()

				chk := newChecker(checker.Options{BaseURL: server.URL, Retries: 5})
				res := chk.Check(endpoint.New("/health"))

				Expect(res.OK).To(BeTrue())
				Expect(res.Attempts).To(Equal(3))
				Expect(atomic.LoadInt64(&calls)).To(Equal(int64(3)))
				Expect(sleeps).To(HaveLen(2))
			})
		})

		Context("when the server is unreachable", func() {
			It("should report a transport failure with no status code", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
				url := server.URL
				server.Close()

				chk := newChecker(checker.Options{BaseURL: url, Retries: 2})
				res := chk.Check(endpoint.New("/health"))

				Expect(res.OK).To(BeFalse())
				Expect(res.StatusCode).To(BeZero())
				Expect(res.Attempts).To(Equal(2))
				Expect(res.Message).To(ContainSubstring("request failed"))
				Expect(sleeps).To(HaveLen(1))
			})
		})

		Context("request headers", func() {
			It("should send the user agent and bearer token", func() {
				var gotUA, gotAuth string
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotUA = r.Header.Get("User-Agent")
					gotAuth = r.Header.Get("Authorization")
					w.WriteHeader(http.StatusOK)
				}))
				defer server.Close()

				chk := newChecker(checker.Options{BaseURL: server.URL, Token: "s3cret"})
				res := chk.Check(endpoint.New("/health"))

				Expect(res.OK).To(BeTrue())
				Expect(gotUA).To(Equal(checker.DefaultUserAgent))
				Expect(gotAuth).To(Equal("Bearer s3cret"))
			})

			It("should not send an authorization header without a token", func() {
				var gotAuth string
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotAuth = r.Header.Get("Authorization")
					w.WriteHeader(http.StatusOK)
				}))
				defer server.Close()

				chk := newChecker(checker.Options{BaseURL: server.URL})
				chk.Check(endpoint.New("/health"))

				Expect(gotAuth).To(BeEmpty())
			})
		})

		Context("with a non-200 expectation", func() {
			It("should pass when the actual status matches", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNotFound)
				}))
				defer server.Close()

				chk := newChecker(checker.Options{BaseURL: server.URL})
				ep := endpoint.New("/missing")
				ep.ExpectedStatus = 404
				res := chk.Check(ep)

				Expect(res.OK).To(BeTrue())
				Expect(res.StatusCode).To(Equal(404))
			})
		})

		Context("with a body predicate", func() {
			It("should pass when the JSON contains the needle", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"message": "service is healthy"}`))
				}))
				defer server.Close()

				chk := newChecker(checker.Options{
					BaseURL: server.URL,
					Body:    checker.JSONContains("healthy"),
				})
				res := chk.Check(endpoint.New("/health"))

				Expect(res.OK).To(BeTrue())
			})

			It("should retry when the body never matches", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					atomic.AddInt64(&calls, 1)
					w.Write([]byte(`{"message": "degraded"}`))
				}))
				defer server.Close()

				chk := newChecker(checker.Options{
					BaseURL: server.URL,
					Retries: 2,
					Body:    checker.JSONContains("healthy"),
				})
				res := chk.Check(endpoint.New("/health"))

				Expect(res.OK).To(BeFalse())
				Expect(res.StatusCode).To(Equal(200))
				Expect(res.Message).To(ContainSubstring("expected JSON to contain"))
				Expect(atomic.LoadInt64(&calls)).To(Equal(int64(2)))
			})

			It("should fail on a non-JSON body", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte("<html>not json</html>"))
				}))
				defer server.Close()

				chk := newChecker(checker.Options{
					BaseURL: server.URL,
					Retries: 1,
					Body:    checker.JSONContains("healthy"),
				})
				res := chk.Check(endpoint.New("/health"))

				Expect(res.OK).To(BeFalse())
				Expect(res.Message).To(ContainSubstring("failed to parse json"))
			})
		})
	})

	Describe("CheckAll", func() {
		It("should keep checking after an endpoint exhausts its retries", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/broken" {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			chk := newChecker(checker.Options{BaseURL: server.URL, Retries: 2})
			results := chk.CheckAll([]endpoint.Endpoint{
				endpoint.New("/broken"),
				endpoint.New("/health"),
			})

			Expect(results).To(HaveLen(2))
			Expect(results[0].OK).To(BeFalse())
			Expect(results[1].OK).To(BeTrue())
		})

		It("should preserve endpoint order", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			chk := newChecker(checker.Options{BaseURL: server.URL})
			results := chk.CheckAll(endpoint.FromPaths([]string{"/a", "/b", "/c"}))

			Expect(results).To(HaveLen(3))
			Expect(results[0].Endpoint.Path).To(Equal("/a"))
			Expect(results[2].Endpoint.Path).To(Equal("/c"))
		})
	})
})

var _ = Describe("Body predicates", func() {
	Describe("Contains", func() {
		It("should match raw substrings", func() {
			Expect(checker.Contains("pong").Match([]byte("ping pong"))).To(Succeed())
		})

		It("should fail on missing substrings", func() {
			Expect(checker.Contains("pong").Match([]byte("ping"))).NotTo(Succeed())
		})
	})

	Describe("JSONContains", func() {
		It("should normalize whitespace before matching", func() {
			body := []byte("{\n  \"status\" :  \"ok\"\n}")
			Expect(checker.JSONContains(`"status":"ok"`).Match(body)).To(Succeed())
		})
	})
})
