package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/response"
)

// BodyLimit caps request bodies; lesson videos are the largest uploads
const BodyLimit = 512 * 1024 * 1024

type APIServer struct {
	app           *fiber.App
	listenAddress string
	log           *utils.Logger
}

func NewAPIServer(listenAddress string, log *utils.Logger) *APIServer {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &APIServer{
		app:           NewApp(log),
		listenAddress: listenAddress,
		log:           log,
	}
}

// NewApp builds the fiber app with the JSON error envelope for errors
// that escape the handlers (unknown routes, oversized bodies, panics).
func NewApp(log *utils.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "learnhub-api",
		BodyLimit: BodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				switch fe.Code {
				case fiber.StatusNotFound:
					return response.NotFound(c, "Route not found")
				case fiber.StatusRequestEntityTooLarge:
					return response.Error(c, fe.Code, "Request body too large", "PAYLOAD_TOO_LARGE")
				case fiber.StatusMethodNotAllowed:
					return response.Error(c, fe.Code, "Method not allowed", "METHOD_NOT_ALLOWED")
				}
				if fe.Code < fiber.StatusInternalServerError {
					return response.Error(c, fe.Code, fe.Message, "BAD_REQUEST")
				}
			}
			log.Error("unhandled error", "path", c.Path(), "request_id", c.Locals("requestid"), "error", err)
			return response.InternalServerError(c, "")
		},
	})
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	s.log.Info("starting API server", "address", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}
