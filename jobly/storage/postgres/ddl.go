package postgres

const ddlBase = `
CREATE TABLE IF NOT EXISTS companies (
  handle        VARCHAR(25) PRIMARY KEY CHECK (handle = lower(handle)),
  name          TEXT UNIQUE NOT NULL,
  description   TEXT NOT NULL,
  num_employees INTEGER CHECK (num_employees >= 0),
  logo_url      TEXT
);

CREATE TABLE IF NOT EXISTS users (
  username   VARCHAR(25) PRIMARY KEY,
  password   TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name  TEXT NOT NULL,
  email      TEXT NOT NULL CHECK (position('@' IN email) > 1),
  is_admin   BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS jobs (
  id             SERIAL PRIMARY KEY,
  title          TEXT NOT NULL,
  salary         INTEGER CHECK (salary >= 0),
  equity         NUMERIC CHECK (equity <= 1.0),
  company_handle VARCHAR(25) NOT NULL REFERENCES companies ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company_handle);
`
