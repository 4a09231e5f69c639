package sqlite

const ddlBase = `
CREATE TABLE IF NOT EXISTS companies (
  handle        TEXT PRIMARY KEY CHECK (handle = lower(handle) AND length(handle) <= 25),
  name          TEXT UNIQUE NOT NULL,
  description   TEXT NOT NULL,
  num_employees INTEGER CHECK (num_employees >= 0),
  logo_url      TEXT
);

CREATE TABLE IF NOT EXISTS users (
  username   TEXT PRIMARY KEY CHECK (length(username) <= 25),
  password   TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name  TEXT NOT NULL,
  email      TEXT NOT NULL CHECK (instr(email, '@') > 1),
  is_admin   INTEGER NOT NULL DEFAULT 0 CHECK (is_admin IN (0, 1))
);

CREATE TABLE IF NOT EXISTS jobs (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  title          TEXT NOT NULL,
  salary         INTEGER CHECK (salary >= 0),
  equity         NUMERIC CHECK (equity <= 1.0),
  company_handle TEXT NOT NULL REFERENCES companies(handle) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company_handle);
`
