package model

import (
	"errors"
	"fmt"
)

// Content schemas for completed artifacts. Parsed from AI output and stored
// in the content column after validation.

type ExamQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type ExamContent struct {
	Questions []ExamQuestion `json:"questions"`
}

func (c *ExamContent) Validate() error {
	if len(c.Questions) == 0 {
		return errors.New("exam has no questions")
	}
	for i, q := range c.Questions {
		if q.Question == "" || q.Answer == "" {
			return fmt.Errorf("question %d is incomplete", i+1)
		}
		if len(q.Options) != 4 {
			return fmt.Errorf("question %d has %d options, want 4", i+1, len(q.Options))
		}
	}
	return nil
}

type CourseModule struct {
	Title   string   `json:"title"`
	Lessons []string `json:"lessons"`
}

type CourseContent struct {
	Modules []CourseModule `json:"modules"`
}

func (c *CourseContent) Validate() error {
	if len(c.Modules) == 0 {
		return errors.New("course has no modules")
	}
	for i, m := range c.Modules {
		if m.Title == "" {
			return fmt.Errorf("module %d has no title", i+1)
		}
		if len(m.Lessons) == 0 {
			return fmt.Errorf("module %d has no lessons", i+1)
		}
	}
	return nil
}

type QuizQuestion struct {
	Question          string   `json:"question"`
	Options           []string `json:"options"`
	Answer            string   `json:"answer"`
	FeedbackCorrect   string   `json:"feedback_correct"`
	FeedbackIncorrect string   `json:"feedback_incorrect"`
	Explanation       string   `json:"explanation"`
}

type QuizContent struct {
	Questions []QuizQuestion `json:"questions"`
}

func (c *QuizContent) Validate() error {
	if len(c.Questions) == 0 {
		return errors.New("quiz has no questions")
	}
	for i, q := range c.Questions {
		if q.Question == "" || q.Answer == "" {
			return fmt.Errorf("question %d is incomplete", i+1)
		}
		if len(q.Options) != 4 {
			return fmt.Errorf("question %d has %d options, want 4", i+1, len(q.Options))
		}
	}
	return nil
}
