package sdk

import "fmt"

func (c *Client) ListSchedules() ([]Schedule, error) {
	var schedules []Schedule
	err := c.get("/schedules", &schedules)
	return schedules, err
}

func (c *Client) CreateSchedule(req CreateScheduleRequest) (*Schedule, error) {
	var schedule Schedule
	err := c.post("/schedules", req, &schedule)
	return &schedule, err
}

func (c *Client) DeleteSchedule(id string) error {
	return c.delete("/schedules/" + id)
}

func (c *Client) ToggleSchedule(id string) (*Schedule, error) {
	var schedule Schedule
	err := c.post(fmt.Sprintf("/schedules/%s/toggle", id), nil, &schedule)
	return &schedule, err
}
