package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/shared"
)

type TestHandler struct {
	testSvc TestServiceInterface
}

func NewTestHandler(testSvc TestServiceInterface) *TestHandler {
	return &TestHandler{
		testSvc: testSvc,
	}
}

// @Summary Start a test
// @Description Generates questions for the domain and level. Falls back to stored or sample questions, reported in notice.
// @Tags tests
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param startRequest body dto.StartTestRequest true "Test configuration"
// @Success 201 {object} shared.Response{data=dto.TestSessionResponse}
// @Router /api/v1/tests [post]
func (h *TestHandler) StartTest(c *fiber.Ctx) error {
	var req dto.StartTestRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	session, err := h.testSvc.StartTest(c.UserContext(), shared.LocalString(c, shared.UserID), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Test started", session)
}

// @Summary Get test session
// @Tags tests
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Test session ID"
// @Success 200 {object} shared.Response{data=dto.TestSessionResponse}
// @Router /api/v1/tests/{id} [get]
func (h *TestHandler) GetTestSession(c *fiber.Ctx) error {
	session, err := h.testSvc.GetTestSession(shared.LocalString(c, shared.UserID), c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, session)
}

// @Summary Answer the current question
// @Description Records the answer, advances to the next question and finalizes the test after the last one
// @Tags tests
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Test session ID"
// @Param answerRequest body dto.AnswerRequest true "Answer"
// @Success 200 {object} shared.Response{data=dto.AnswerResponse}
// @Router /api/v1/tests/{id}/answer [post]
func (h *TestHandler) AnswerQuestion(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.testSvc.AnswerQuestion(c.UserContext(), shared.LocalString(c, shared.UserID), c.Params("id"), req.Answer)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Abandon a test
// @Tags tests
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Test session ID"
// @Success 200 {object} shared.Response{data=dto.TestSessionResponse}
// @Router /api/v1/tests/{id}/abandon [post]
func (h *TestHandler) AbandonTest(c *fiber.Ctx) error {
	session, err := h.testSvc.AbandonTest(shared.LocalString(c, shared.UserID), c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Test abandoned", session)
}

// @Summary Submit a test result
// @Description Stores a test that was run by the client and applies score, streak, badges and skills
// @Tags results
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param submitRequest body dto.SubmitResultRequest true "Result"
// @Success 201 {object} shared.Response{data=dto.TestResultResponse}
// @Router /api/v1/results [post]
func (h *TestHandler) SubmitTestResult(c *fiber.Ctx) error {
	var req dto.SubmitResultRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.testSvc.SubmitTestResult(c.UserContext(), shared.LocalString(c, shared.UserID), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Result saved", result)
}

// @Summary List test results
// @Tags results
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param limit query int false "Limit results (default 50)"
// @Success 200 {object} shared.Response{data=[]dto.TestResultResponse}
// @Router /api/v1/results [get]
func (h *TestHandler) GetTestResults(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := h.testSvc.GetTestResults(shared.LocalString(c, shared.UserID), limit)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, results)
}

// @Summary Get a test result
// @Tags results
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Result ID"
// @Success 200 {object} shared.Response{data=dto.TestResultResponse}
// @Router /api/v1/results/{id} [get]
func (h *TestHandler) GetTestResult(c *fiber.Ctx) error {
	result, err := h.testSvc.GetTestResult(shared.LocalString(c, shared.UserID), c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, result)
}
